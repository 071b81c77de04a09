package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zabbixmcp/zabbixmcp/internal/auth"
	"github.com/zabbixmcp/zabbixmcp/internal/tools"
)

// Dependencies bundles what the handlers need.
type Dependencies struct {
	Auth     *auth.Service
	Registry *tools.Registry
	Logger   *slog.Logger

	// Ready reports whether the Zabbix session is established.
	Ready func() bool
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	deps *Dependencies
}

func NewHealthHandler(deps *Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.deps.Ready != nil && !h.deps.Ready() {
		SendJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	SendJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// SystemHandler serves login and the tool surface.
type SystemHandler struct {
	deps *Dependencies
}

func NewSystemHandler(deps *Dependencies) *SystemHandler {
	return &SystemHandler{deps: deps}
}

// Login exchanges admin credentials for a bearer token.
func (h *SystemHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := DecodeJSON[auth.LoginRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.deps.Auth.Login(req.Username, req.Password)
	if err != nil {
		SendError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return
	}

	SendJSON(w, http.StatusOK, resp)
}

// ListTools returns the fixed tool catalog.
func (h *SystemHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	catalog := h.deps.Registry.List()
	SendJSON(w, http.StatusOK, map[string]interface{}{
		"tools": catalog,
		"total": len(catalog),
	})
}

// invokeRequest is the body of a tool invocation.
type invokeRequest struct {
	Arguments map[string]any `json:"arguments"`
}

// invokeResponse mirrors the tool result contract: display text plus an
// explicit error flag, never a raw fault.
type invokeResponse struct {
	Result  string `json:"result"`
	IsError bool   `json:"is_error"`
}

// InvokeTool runs one tool by name.
func (h *SystemHandler) InvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var args map[string]any
	if r.ContentLength > 0 {
		req, ok := DecodeJSON[invokeRequest](w, r)
		if !ok {
			return
		}
		args = req.Arguments
	}

	result := h.deps.Registry.Invoke(r.Context(), name, tools.Args(args))
	SendJSON(w, http.StatusOK, invokeResponse{
		Result:  result.Text,
		IsError: result.IsError,
	})
}
