// Package tools maps the fixed tool catalog to handlers over the Zabbix
// client and renders results as display text. Handler failures never
// escape: every error becomes an error-flagged text result.
package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zabbixmcp/zabbixmcp/internal/users"
	"github.com/zabbixmcp/zabbixmcp/internal/zabbix"
)

// Args is the structured argument mapping of one tool invocation.
type Args map[string]any

// String returns a string argument, empty when absent or mistyped.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Int returns an integer argument, falling back to def when absent.
// JSON numbers decode as float64; numeric strings are accepted too.
func (a Args) Int(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

// Result is the outcome of a tool invocation: display text plus an
// explicit failure flag in place of an error.
type Result struct {
	Text    string
	IsError bool
}

// HandlerFunc executes one tool against the backing services.
type HandlerFunc func(ctx context.Context, deps *Deps, args Args) (string, error)

// Deps bundles the services tool handlers call into.
type Deps struct {
	Client *zabbix.Client
	Users  *users.Manager
	Logger *slog.Logger
}

// Registry is the dispatch table from tool name to handler. The tool
// set is fixed at build time; there is no runtime registration.
type Registry struct {
	deps  *Deps
	tools map[string]Tool
	order []string
}

// NewRegistry builds the registry with the full catalog.
func NewRegistry(client *zabbix.Client, userManager *users.Manager, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		deps:  &Deps{Client: client, Users: userManager, Logger: logger},
		tools: make(map[string]Tool),
	}
	for _, t := range catalog() {
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r
}

// List returns the catalog in declaration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Invoke dispatches a tool by name. Unknown tools, missing required
// arguments, handler errors, and panics all come back as error-flagged
// results; no remote call is made for the first two.
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.deps.Logger.Error("tool handler panicked", "tool", name, "panic", rec)
			result = Result{Text: fmt.Sprintf("Error: internal fault in tool %s", name), IsError: true}
		}
	}()

	tool, ok := r.tools[name]
	if !ok {
		return Result{Text: fmt.Sprintf("Unknown tool: %s", name), IsError: true}
	}

	if args == nil {
		args = Args{}
	}
	for _, key := range tool.InputSchema.Required {
		if args.String(key) == "" {
			return Result{
				Text:    fmt.Sprintf("Error: %s is required", key),
				IsError: true,
			}
		}
	}

	text, err := tool.handler(ctx, r.deps, args)
	if err != nil {
		r.deps.Logger.Error("tool failed", "tool", name, "error", err)
		return Result{Text: fmt.Sprintf("Error: %v", err), IsError: true}
	}
	return Result{Text: text}
}
