// Package zabbix implements an authenticated JSON-RPC 2.0 client for the
// Zabbix API, plus convenience accessors for the entities the bridge
// exposes as tools (hosts, triggers, events, problems, items, templates,
// host groups, users, roles).
package zabbix

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout bounds each API round trip.
const DefaultTimeout = 10 * time.Second

// Client maintains one authenticated session to a Zabbix JSON-RPC
// endpoint. The token and request-id counter are guarded by a mutex so
// the hosting runtime may invoke tools concurrently.
type Client struct {
	apiURL   string
	username string
	password string
	http     *http.Client
	logger   *slog.Logger

	mu     sync.Mutex
	token  string
	nextID uint64
}

// Options tune client construction. The zero value is usable.
type Options struct {
	Timeout       time.Duration // per-call bound, DefaultTimeout when zero
	SkipVerifySSL bool
	Logger        *slog.Logger
}

// New creates a client for the API endpoint at baseURL
// (e.g. http://zabbix.example.com:80). No network traffic is issued.
func New(baseURL, username, password string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport
	if opts.SkipVerifySSL {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiURL:   trimTrailingSlash(baseURL) + "/api_jsonrpc.php",
		username: username,
		password: password,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// reserveID returns the next request id. Ids are unique and strictly
// increasing for the lifetime of the client.
func (c *Client) reserveID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return c.nextID
}

// Authenticate performs user.login and stores the returned token.
// Re-authenticating replaces the token. No retry is attempted; failures
// surface to the caller as *AuthError.
func (c *Client) Authenticate(ctx context.Context) error {
	req := rpcRequest{
		JSONRPC: jsonrpcVersion,
		Method:  "user.login",
		Params: map[string]any{
			"username": c.username,
			"password": c.password,
		},
		ID: c.reserveID(),
	}

	resp, err := c.post(ctx, req)
	if err != nil {
		return &AuthError{Message: "connection error", Err: err}
	}
	if resp.Error != nil {
		msg := resp.Error.Message
		if resp.Error.Data != "" {
			msg = fmt.Sprintf("%s %s", resp.Error.Message, resp.Error.Data)
		}
		return &AuthError{Message: msg}
	}
	if len(resp.Result) == 0 {
		return &AuthError{Message: "no token in response"}
	}

	var token string
	if err := json.Unmarshal(resp.Result, &token); err != nil {
		return &AuthError{Message: "malformed token in response", Err: err}
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.logger.Info("authenticated with zabbix", "url", c.apiURL, "user", c.username)
	return nil
}

// Call performs an authenticated API call and returns the raw result.
// A nil params map is sent as an empty mapping. An absent result field
// decodes as an empty JSON object.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	if params == nil {
		params = map[string]any{}
	}

	req := rpcRequest{
		JSONRPC: jsonrpcVersion,
		Method:  method,
		Params:  params,
		Auth:    token,
		ID:      c.reserveID(),
	}

	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, &TransportError{Op: method, Err: err}
	}
	if resp.Error != nil {
		return nil, &APIError{
			Method:  method,
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
			Data:    resp.Error.Data,
		}
	}
	if len(resp.Result) == 0 {
		return json.RawMessage("{}"), nil
	}
	return resp.Result, nil
}

// callInto performs Call and decodes the result into out.
func (c *Client) callInto(ctx context.Context, method string, params map[string]any, out any) error {
	result, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("zabbix: %s: decoding result: %w", method, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, rpc rpcRequest) (*rpcResponse, error) {
	body, err := json.Marshal(rpc)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json-rpc")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// Drain a little of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return nil, fmt.Errorf("unexpected HTTP status %d: %s", res.StatusCode, snippet)
	}

	var resp rpcResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	c.logger.Debug("api call completed",
		"method", rpc.Method,
		"request_id", rpc.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"remote_error", resp.Error != nil,
	)
	return &resp, nil
}
