package zabbix

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockServer is a scriptable stand-in for the remote JSON-RPC endpoint,
// used by the package tests and by the tool-layer tests. Results are
// configured per method; every received envelope is recorded so tests
// can assert call order and parameters.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	loginErr *rpcError
	results  map[string]json.RawMessage
	queues   map[string][]json.RawMessage
	errs     map[string]*rpcError
	calls    []RecordedCall
}

// RecordedCall is one envelope received by the mock.
type RecordedCall struct {
	Method string
	Params map[string]any
	Auth   string
	ID     uint64
}

// NewMockServer starts a mock accepting logins with token "mock-token".
func NewMockServer() *MockServer {
	m := &MockServer{
		token:   "mock-token",
		results: make(map[string]json.RawMessage),
		queues:  make(map[string][]json.RawMessage),
		errs:    make(map[string]*rpcError),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api_jsonrpc.php", m.handleRPC)
	m.Server = httptest.NewServer(mux)
	return m
}

// Handle sets a fixed result for a method. v is marshalled once.
func (m *MockServer) Handle(method string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[method] = data
}

// Enqueue appends a one-shot result for a method. Queued results are
// consumed in order before any fixed result is considered.
func (m *MockServer) Enqueue(method string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[method] = append(m.queues[method], data)
}

// HandleError makes a method return a structured API error.
func (m *MockServer) HandleError(method string, code int, message, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[method] = &rpcError{Code: code, Message: message, Data: data}
}

// FailLogin makes user.login return the given structured error.
func (m *MockServer) FailLogin(code int, message, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginErr = &rpcError{Code: code, Message: message, Data: data}
}

// Calls returns a copy of every envelope received so far.
func (m *MockServer) Calls() []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the recorded envelopes for one method.
func (m *MockServer) CallsFor(method string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RecordedCall
	for _, c := range m.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears recorded calls and scripted results.
func (m *MockServer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.loginErr = nil
	m.results = make(map[string]json.RawMessage)
	m.queues = make(map[string][]json.RawMessage)
	m.errs = make(map[string]*rpcError)
}

func (m *MockServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.calls = append(m.calls, RecordedCall{
		Method: req.Method,
		Params: req.Params,
		Auth:   req.Auth,
		ID:     req.ID,
	})

	resp := rpcResponse{JSONRPC: jsonrpcVersion, ID: req.ID}
	switch {
	case req.Method == "user.login":
		if m.loginErr != nil {
			resp.Error = m.loginErr
		} else {
			resp.Result, _ = json.Marshal(m.token)
		}
	case m.errs[req.Method] != nil:
		resp.Error = m.errs[req.Method]
	case len(m.queues[req.Method]) > 0:
		resp.Result = m.queues[req.Method][0]
		m.queues[req.Method] = m.queues[req.Method][1:]
	case m.results[req.Method] != nil:
		resp.Result = m.results[req.Method]
	default:
		resp.Error = &rpcError{Code: -32601, Message: "Method not handled by mock.", Data: req.Method}
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
