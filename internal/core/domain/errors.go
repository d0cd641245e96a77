package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateSubmit    = errors.New("form already submitted")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// APIError is a failure reported by the back-office API. It unwraps to Kind,
// one of the sentinels above, so callers can use errors.Is.
type APIError struct {
	Status  int
	Code    string
	Message string
	// Fields carries per-field validation messages when the backend sends them.
	Fields map[string]string
	Kind   error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend error %d (%s)", e.Status, e.Code)
}

func (e *APIError) Unwrap() error { return e.Kind }
