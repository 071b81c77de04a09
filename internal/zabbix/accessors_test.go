package zabbix

import (
	"context"
	"errors"
	"testing"
)

func authedClient(t *testing.T, mock *MockServer) *Client {
	t.Helper()
	client := newTestClient(mock)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	return client
}

func TestGetHostByName(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.get", []Host{
		{HostID: "10084", Host: "web-01", Name: "Web server 01", Status: "0"},
	})

	client := authedClient(t, mock)
	host, err := client.GetHostByName(context.Background(), "web-01")
	if err != nil {
		t.Fatalf("GetHostByName failed: %v", err)
	}
	if host.HostID != "10084" {
		t.Errorf("hostid = %q, want 10084", host.HostID)
	}

	calls := mock.CallsFor("host.get")
	if len(calls) != 1 {
		t.Fatalf("expected 1 host.get call, got %d", len(calls))
	}
	filter, ok := calls[0].Params["filter"].(map[string]any)
	if !ok || filter["host"] != "web-01" {
		t.Errorf("filter = %v, want exact host match", calls[0].Params["filter"])
	}
}

func TestGetHostByNameNotFound(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("host.get", []Host{})

	client := authedClient(t, mock)
	_, err := client.GetHostByName(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if nfe.Kind != "host" || nfe.Name != "ghost" {
		t.Errorf("NotFoundError = %+v", nfe)
	}
}

func TestGetEventsDefaultLimit(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("event.get", []Event{})

	client := authedClient(t, mock)
	if _, err := client.GetEvents(context.Background(), 0, nil); err != nil {
		t.Fatalf("GetEvents failed: %v", err)
	}

	calls := mock.CallsFor("event.get")
	if len(calls) != 1 {
		t.Fatalf("expected 1 event.get call, got %d", len(calls))
	}
	// JSON numbers decode as float64 on the mock side
	if got := calls[0].Params["limit"]; got != float64(100) {
		t.Errorf("limit = %v, want default 100", got)
	}
	if got := calls[0].Params["sortfield"]; got != "clock" {
		t.Errorf("sortfield = %v, want clock", got)
	}
}

func TestGetProblemsOverridesWin(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("problem.get", []Problem{})

	client := authedClient(t, mock)
	_, err := client.GetProblems(context.Background(), map[string]any{"recent": false, "limit": 5})
	if err != nil {
		t.Fatalf("GetProblems failed: %v", err)
	}

	calls := mock.CallsFor("problem.get")
	if got := calls[0].Params["recent"]; got != false {
		t.Errorf("recent = %v, override should win", got)
	}
	if got := calls[0].Params["limit"]; got != float64(5) {
		t.Errorf("limit = %v, want 5", got)
	}
}

func TestGetTemplateByNameNotFound(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("template.get", []Template{})

	client := authedClient(t, mock)
	_, err := client.GetTemplateByName(context.Background(), "No such template")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAcknowledgeEvent(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("event.acknowledge", map[string]any{"eventids": []string{"42"}})

	client := authedClient(t, mock)
	if err := client.AcknowledgeEvent(context.Background(), []string{"42"}, "looking into it"); err != nil {
		t.Fatalf("AcknowledgeEvent failed: %v", err)
	}

	calls := mock.CallsFor("event.acknowledge")
	if len(calls) != 1 {
		t.Fatalf("expected 1 acknowledge call, got %d", len(calls))
	}
	if got := calls[0].Params["message"]; got != "looking into it" {
		t.Errorf("message = %v", got)
	}
	if got := calls[0].Params["action"]; got != float64(1) {
		t.Errorf("action = %v, want 1", got)
	}
}

func TestGetDashboards(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("dashboard.get", []Dashboard{{DashboardID: "1", Name: "Global view"}})

	client := authedClient(t, mock)
	dashboards, err := client.GetDashboards(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetDashboards failed: %v", err)
	}
	if len(dashboards) != 1 || dashboards[0].Name != "Global view" {
		t.Errorf("dashboards = %+v", dashboards)
	}
}

func TestGetRoles(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("role.get", []Role{
		{RoleID: "1", Name: "User role", Type: "1"},
		{RoleID: "3", Name: "Super admin role", Type: "3"},
	})

	client := authedClient(t, mock)
	roles, err := client.GetRoles(context.Background())
	if err != nil {
		t.Fatalf("GetRoles failed: %v", err)
	}
	if len(roles) != 2 || roles[1].Name != "Super admin role" {
		t.Errorf("roles = %+v", roles)
	}
}

func TestGetHistoryScopesItem(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.Handle("history.get", []HistoryEntry{{ItemID: "23296", Clock: "1756100000", Value: "0.42"}})

	client := authedClient(t, mock)
	history, err := client.GetHistory(context.Background(), "23296", 10, nil)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].Value != "0.42" {
		t.Errorf("history = %+v", history)
	}

	calls := mock.CallsFor("history.get")
	if got := calls[0].Params["itemids"]; got != "23296" {
		t.Errorf("itemids = %v", got)
	}
}
