package zabbix

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when Call is used before a
	// successful Authenticate. This is a programming error in the
	// bridge, not a remote fault.
	ErrNotAuthenticated = errors.New("zabbix: not authenticated, call Authenticate first")

	// ErrNotFound is the sentinel for named lookups matching zero records.
	ErrNotFound = errors.New("zabbix: not found")
)

// AuthError indicates the login call was rejected or malformed.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("zabbix: authentication failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("zabbix: authentication failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError wraps network or timeout failures talking to the API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("zabbix: %s: connection error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError carries a structured error returned by the remote API for an
// otherwise well-formed request. Code, Message and Data are verbatim.
type APIError struct {
	Method  string
	Code    int
	Message string
	Data    string
}

func (e *APIError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("zabbix: %s: API error %d: %s: %s", e.Method, e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("zabbix: %s: API error %d: %s", e.Method, e.Code, e.Message)
}

// NotFoundError names the entity a lookup failed to resolve. It matches
// ErrNotFound under errors.Is.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("zabbix: %s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
