package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error leaving a service wraps exactly one of these,
// anything else is treated as unexpected.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
)

// Authentication errors
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError carries a caller-safe message on top of a sentinel
type AppError struct {
	Err     error
	Message string
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithFields attaches field errors
func (e *AppError) WithFields(fields ...FieldError) *AppError {
	e.Fields = append(e.Fields, fields...)
	return e
}

func newError(kind error, format string, args ...interface{}) *AppError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &AppError{Err: kind, Message: msg}
}

// NewValidation builds a 400 error
func NewValidation(format string, args ...interface{}) *AppError {
	return newError(ErrValidation, format, args...)
}

// NewUnauthorized builds a 401 error
func NewUnauthorized(format string, args ...interface{}) *AppError {
	return newError(ErrUnauthorized, format, args...)
}

// NewForbidden builds a 403 error
func NewForbidden(format string, args ...interface{}) *AppError {
	return newError(ErrForbidden, format, args...)
}

// NewNotFound builds a 404 error
func NewNotFound(format string, args ...interface{}) *AppError {
	return newError(ErrNotFound, format, args...)
}

// NewConflict builds a 409 error
func NewConflict(format string, args ...interface{}) *AppError {
	return newError(ErrConflict, format, args...)
}

// Message returns the caller-safe message of err, or fallback when err carries none
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// Fields returns the field errors attached to err, if any
func Fields(err error) []FieldError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// IsNotFound is shorthand for errors.Is(err, ErrNotFound)
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
