package users

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is a single violated business rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violated rule so callers see the full
// list, not just the first.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		messages[i] = e.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// append adds a violation, allocating the collection on first use so a
// nil *ValidationErrors means "no violations".
func (v *ValidationErrors) append(field, message string) *ValidationErrors {
	if v == nil {
		v = &ValidationErrors{}
	}
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message})
	return v
}

func singleValidationError(field, message string) *ValidationErrors {
	return &ValidationErrors{Errors: []ValidationError{{Field: field, Message: message}}}
}

// validateStruct runs tag validation and converts the result into the
// collected form. Returns nil when the struct is valid.
func validateStruct(v any) *ValidationErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var out *ValidationErrors
	for _, e := range err.(validator.ValidationErrors) {
		out = out.append(toSnakeCase(e.Field()), formatValidationMessage(e))
	}
	return out
}

func formatValidationMessage(e validator.FieldError) string {
	field := toSnakeCase(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}

// toSnakeCase converts PascalCase/camelCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				result.WriteByte('_')
			}
			result.WriteByte(byte(r + 'a' - 'A'))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func unmarshalResult(data json.RawMessage, out any) error {
	return json.Unmarshal(data, out)
}
