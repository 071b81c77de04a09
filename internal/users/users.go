// Package users layers account business rules on the Zabbix client:
// password-containment checks, role-name resolution, and the
// current-password contract for password changes.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zabbixmcp/zabbixmcp/internal/zabbix"
)

// DefaultRole is used when create_user is called without a role.
const DefaultRole = "Super admin role"

// Manager wraps a client with user and role operations.
type Manager struct {
	client *zabbix.Client
	logger *slog.Logger
}

// NewManager creates a user manager over an authenticated client.
func NewManager(client *zabbix.Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{client: client, logger: logger}
}

// CreateUserInput are the create_user arguments. Role may be a role id
// or a role name; names are resolved with an exact-match lookup.
type CreateUserInput struct {
	Username string `validate:"required,min=1"`
	Password string `validate:"required,min=1"`
	Role     string
	Email    string `validate:"omitempty,email"`
	Name     string
	Surname  string
}

// CreateUser validates the input, resolves the role, and issues
// user.create. All violated password rules are collected before
// failing; nothing reaches the remote API on a validation failure.
func (m *Manager) CreateUser(ctx context.Context, in CreateUserInput) (string, error) {
	verrs := validateStruct(in)

	// Containment checks are case-insensitive substring matches.
	if in.Username != "" && strings.Contains(strings.ToLower(in.Password), strings.ToLower(in.Username)) {
		verrs = verrs.append("password", "password cannot contain username")
	}
	if in.Surname != "" && strings.Contains(strings.ToLower(in.Password), strings.ToLower(in.Surname)) {
		verrs = verrs.append("password", "password cannot contain surname")
	}
	if verrs != nil {
		return "", verrs
	}

	role := in.Role
	if role == "" {
		role = DefaultRole
	}
	roleID, err := m.resolveRoleID(ctx, role)
	if err != nil {
		return "", err
	}

	params := map[string]any{
		"username": in.Username,
		"passwd":   in.Password,
		"roleid":   roleID,
	}
	if in.Name != "" {
		params["name"] = in.Name
	}
	if in.Surname != "" {
		params["surname"] = in.Surname
	}
	if in.Email != "" {
		params["medias"] = []map[string]any{{
			"mediatypeid": "1",
			"sendto":      []string{in.Email},
		}}
	}

	var result struct {
		UserIDs []string `json:"userids"`
	}
	if err := callInto(ctx, m.client, "user.create", params, &result); err != nil {
		return "", err
	}
	if len(result.UserIDs) == 0 {
		return "", fmt.Errorf("users: user.create returned no user id")
	}

	m.logger.Info("user created", "username", in.Username, "userid", result.UserIDs[0])
	return result.UserIDs[0], nil
}

// UpdateUserInput are the update_user arguments. Only non-empty fields
// are sent to the API.
type UpdateUserInput struct {
	UserID          string `validate:"required"`
	Password        string
	CurrentPassword string
	RoleID          string
	Email           string `validate:"omitempty,email"`
	Name            string
	Surname         string
}

func (in UpdateUserInput) mutates() bool {
	return in.Password != "" || in.RoleID != "" || in.Email != "" || in.Name != "" || in.Surname != ""
}

// UpdateUser applies the supplied fields to an existing user and
// returns the list of changed field names. Changing the password
// requires proving the current one; that contract is checked before any
// remote call. Supplying no mutable field succeeds trivially with an
// empty change list and no remote call.
func (m *Manager) UpdateUser(ctx context.Context, in UpdateUserInput) ([]string, error) {
	if verrs := validateStruct(in); verrs != nil {
		return nil, verrs
	}
	if !in.mutates() {
		return []string{}, nil
	}
	if in.Password != "" && in.CurrentPassword == "" {
		return nil, singleValidationError("current_password", "current_password is required when changing password")
	}

	// The current record supplies username/surname for the
	// containment checks on the new password.
	var current []zabbix.User
	err := callInto(ctx, m.client, "user.get", map[string]any{
		"output":  []string{"userid", "username", "surname"},
		"userids": in.UserID,
	}, &current)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, &zabbix.NotFoundError{Kind: "user", Name: in.UserID}
	}

	params := map[string]any{"userid": in.UserID}
	var changes []string

	if in.Password != "" {
		lower := strings.ToLower(in.Password)
		if u := current[0].Username; u != "" && strings.Contains(lower, strings.ToLower(u)) {
			return nil, singleValidationError("password", "new password cannot contain username")
		}
		if s := current[0].Surname; s != "" && strings.Contains(lower, strings.ToLower(s)) {
			return nil, singleValidationError("password", "new password cannot contain surname")
		}
		params["passwd"] = in.Password
		params["current_passwd"] = in.CurrentPassword
		changes = append(changes, "password")
	}
	if in.RoleID != "" {
		params["roleid"] = in.RoleID
		changes = append(changes, "role")
	}
	if in.Email != "" {
		params["email"] = in.Email
		changes = append(changes, "email")
	}
	if in.Name != "" {
		params["name"] = in.Name
		changes = append(changes, "name")
	}
	if in.Surname != "" {
		params["surname"] = in.Surname
		changes = append(changes, "surname")
	}

	if _, err := m.client.Call(ctx, "user.update", params); err != nil {
		return nil, err
	}

	m.logger.Info("user updated", "userid", in.UserID, "changes", changes)
	return changes, nil
}

// Roles lists all permission roles.
func (m *Manager) Roles(ctx context.Context) ([]zabbix.Role, error) {
	return m.client.GetRoles(ctx)
}

// AssignRole sets a user's role.
func (m *Manager) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := m.client.Call(ctx, "user.update", map[string]any{
		"userid": userID,
		"roleid": roleID,
	})
	return err
}

// resolveRoleID maps a role argument to a role id: purely numeric
// arguments pass through unchanged, otherwise an exact-name lookup runs.
func (m *Manager) resolveRoleID(ctx context.Context, role string) (string, error) {
	if isDigits(role) {
		return role, nil
	}

	var roles []zabbix.Role
	err := callInto(ctx, m.client, "role.get", map[string]any{
		"output": []string{"roleid", "name"},
		"filter": map[string]any{"name": role},
	}, &roles)
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", singleValidationError("role", fmt.Sprintf("unknown role: %s", role))
	}
	return roles[0].RoleID, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// callInto runs an API call and decodes the result.
func callInto(ctx context.Context, client *zabbix.Client, method string, params map[string]any, out any) error {
	result, err := client.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if err := unmarshalResult(result, out); err != nil {
		return fmt.Errorf("users: %s: decoding result: %w", method, err)
	}
	return nil
}
