package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/zabbixmcp/zabbixmcp/internal/tools"
)

// maxLineBytes bounds one request line on stdin.
const maxLineBytes = 4 * 1024 * 1024

// Server reads requests from in one line at a time and writes
// line-delimited responses to out. Requests are handled strictly
// sequentially. Logs must go elsewhere (stderr) when out is stdout.
type Server struct {
	registry *tools.Registry
	in       io.Reader
	out      io.Writer
	logger   *slog.Logger
	name     string
	version  string
}

// NewServer creates a stdio MCP server over the tool registry.
func NewServer(registry *tools.Registry, in io.Reader, out io.Writer, logger *slog.Logger, name, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry: registry,
		in:       in,
		out:      out,
		logger:   logger,
		name:     name,
		version:  version,
	}
}

// Run serves until in is exhausted or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.write(response{
				JSONRPC: "2.0",
				Error:   &respError{Code: codeParseError, Message: "Parse error"},
			})
			continue
		}

		if resp, reply := s.handle(ctx, &req); reply {
			s.write(*resp)
		}
	}
	return scanner.Err()
}

// handle dispatches one request. Notifications (no id) get no reply.
func (s *Server) handle(ctx context.Context, req *request) (*response, bool) {
	isNotification := req.ID == nil

	resp := &response{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "initialize":
		resp.Result = initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    capabilities{Tools: &toolCapabilities{}},
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		}

	case "notifications/initialized", "notifications/cancelled":
		return nil, false

	case "ping":
		resp.Result = struct{}{}

	case "tools/list":
		resp.Result = listToolsResult{Tools: s.registry.List()}

	case "tools/call":
		var params callToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &respError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
			break
		}
		result := s.registry.Invoke(ctx, params.Name, tools.Args(params.Arguments))
		resp.Result = callToolResult{
			Content: []contentBlock{{Type: "text", Text: result.Text}},
			IsError: result.IsError,
		}

	default:
		if isNotification {
			return nil, false
		}
		resp.Error = &respError{
			Code:    codeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	if isNotification {
		return nil, false
	}
	return resp, true
}

func (s *Server) write(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encoding response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := s.out.Write(data); err != nil {
		s.logger.Error("writing response", "error", err)
	}
}
