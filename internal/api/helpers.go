package api

import (
	"encoding/json"
	"net/http"

	"github.com/zabbixmcp/zabbixmcp/internal/middleware"
)

// SendJSON sends a JSON response.
func SendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// SendError sends a standardized error response.
func SendError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	middleware.SendError(w, r, status, code, message, details)
}

// DecodeJSON decodes request body with error handling.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var input T
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		SendError(w, r, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body", err.Error())
		return input, false
	}
	return input, true
}
