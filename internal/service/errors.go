package service

import (
	"errors"
	"fmt"
)

// Sentinel errors handlers translate to HTTP status codes:
// ErrNotFound → 404, ErrInvalidState → 409, ValidationError → 422.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError is a synchronous input rejection. Invalid input is never
// silently corrected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
