// Package common defines shared constants and sentinel errors used across
// MixMini layers. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorConflict     = errors.New("conflict")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError carries a client-facing message for rejected input.
// It matches ErrorValidation with errors.Is.
type ValidationError struct {
	Message string
}

// NewValidationError returns a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
