package zabbix

import "encoding/json"

const jsonrpcVersion = "2.0"

// rpcRequest is the JSON-RPC 2.0 envelope sent to the API. Auth is
// omitted only for user.login.
type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
	Auth    string         `json:"auth,omitempty"`
	ID      uint64         `json:"id"`
}

// rpcResponse carries exactly one of Result or Error.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      uint64          `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// mergeParams overlays caller-supplied overrides on method defaults.
// Overrides win on key collision. The defaults map is never mutated.
func mergeParams(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
