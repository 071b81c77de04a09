package zabbix

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(m *MockServer) *Client {
	return New(m.URL, "Admin", "zabbix", Options{Logger: quietLogger()})
}

func TestCallBeforeAuthenticate(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	client := newTestClient(mock)

	_, err := client.Call(context.Background(), "host.get", nil)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if got := len(mock.Calls()); got != 0 {
		t.Errorf("expected no remote calls, got %d", got)
	}
}

func TestAuthenticateSendsCredentialsWithoutAuth(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	client := newTestClient(mock)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	logins := mock.CallsFor("user.login")
	if len(logins) != 1 {
		t.Fatalf("expected 1 login call, got %d", len(logins))
	}
	if logins[0].Auth != "" {
		t.Errorf("login must not carry an auth token, got %q", logins[0].Auth)
	}
	if got := logins[0].Params["username"]; got != "Admin" {
		t.Errorf("username = %v, want Admin", got)
	}
	if got := logins[0].Params["password"]; got != "zabbix" {
		t.Errorf("password = %v, want zabbix", got)
	}
}

func TestAuthenticateFailureIncludesRemoteDetail(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.FailLogin(-32602, "Invalid params.", "Incorrect user name or password or account is temporarily blocked.")

	client := newTestClient(mock)
	err := client.Authenticate(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
	if !strings.Contains(authErr.Message, "Invalid params.") {
		t.Errorf("message %q missing remote message", authErr.Message)
	}
	if !strings.Contains(authErr.Message, "Incorrect user name or password") {
		t.Errorf("message %q missing remote detail", authErr.Message)
	}
}

func TestCallAttachesTokenAfterAuthenticate(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.get", []Host{})

	client := newTestClient(mock)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if _, err := client.Call(context.Background(), "host.get", nil); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	calls := mock.CallsFor("host.get")
	if len(calls) != 1 {
		t.Fatalf("expected 1 host.get call, got %d", len(calls))
	}
	if calls[0].Auth != "mock-token" {
		t.Errorf("auth = %q, want mock-token", calls[0].Auth)
	}
	// nil params are sent as an empty mapping, not null
	if calls[0].Params == nil {
		t.Error("params should be an empty object, got null")
	}
}

func TestRequestIDsStrictlyIncrease(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.get", []Host{})
	mock.Handle("trigger.get", []Trigger{})

	client := newTestClient(mock)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := client.Call(context.Background(), "host.get", nil); err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if _, err := client.Call(context.Background(), "trigger.get", nil); err != nil {
			t.Fatalf("Call failed: %v", err)
		}
	}

	calls := mock.Calls()
	for i := 1; i < len(calls); i++ {
		if calls[i].ID <= calls[i-1].ID {
			t.Fatalf("request ids not strictly increasing: %d then %d", calls[i-1].ID, calls[i].ID)
		}
	}
}

func TestCallRemoteErrorIsVerbatim(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.HandleError("host.create", -32500, "Application error.", `Host with the same name "web-01" already exists.`)

	client := newTestClient(mock)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	_, err := client.Call(context.Background(), "host.create", map[string]any{"host": "web-01"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != -32500 {
		t.Errorf("code = %d, want -32500", apiErr.Code)
	}
	if apiErr.Message != "Application error." {
		t.Errorf("message = %q", apiErr.Message)
	}
	if !strings.Contains(apiErr.Data, "already exists") {
		t.Errorf("data = %q, missing remote detail", apiErr.Data)
	}
	if apiErr.Method != "host.create" {
		t.Errorf("method = %q, want host.create", apiErr.Method)
	}
}

func TestCallTransportError(t *testing.T) {
	mock := NewMockServer()
	client := newTestClient(mock)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	mock.Close()

	_, err := client.Call(context.Background(), "host.get", nil)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if transportErr.Op != "host.get" {
		t.Errorf("op = %q, want host.get", transportErr.Op)
	}
}

func TestMergeParams(t *testing.T) {
	defaults := map[string]any{"output": "extend", "limit": 100}
	overrides := map[string]any{"limit": 5, "sortfield": "clock"}

	merged := mergeParams(defaults, overrides)

	if merged["output"] != "extend" {
		t.Errorf("output = %v, want extend", merged["output"])
	}
	if merged["limit"] != 5 {
		t.Errorf("limit = %v, want override 5", merged["limit"])
	}
	if merged["sortfield"] != "clock" {
		t.Errorf("sortfield = %v, want clock", merged["sortfield"])
	}
	if defaults["limit"] != 100 {
		t.Error("defaults map was mutated")
	}
}
