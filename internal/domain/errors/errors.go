package errors

import (
	"errors"
	"strings"
)

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrUnauthorized      = errors.New("missing or invalid identity")
	ErrNotFound          = errors.New("not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrParentNotFound    = errors.New("parent task not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrLimitExceeded     = errors.New("cascade delete limit exceeded")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrRefreshTokenReuse = errors.New("refresh token already used")
	ErrGoogleNotLinked   = errors.New("no google credentials stored for user")
	ErrGoogleReauth      = errors.New("google authorization expired")
)

// FieldError is one failed field check; Path is the JSON path of the field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports malformed input with per-field details.
type ValidationError struct {
	Details []FieldError
}

// NewValidationError builds a single-field validation error.
func NewValidationError(path, message string) *ValidationError {
	return &ValidationError{Details: []FieldError{{Path: path, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Path+": "+d.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UpstreamError carries a failed Google API response through to the client.
type UpstreamError struct {
	Status       int
	Message      string
	Instructions string
}

func (e *UpstreamError) Error() string { return e.Message }
