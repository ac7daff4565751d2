package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrBadRequest   = errors.New("bad request")
	ErrUpstream     = errors.New("upstream error")
	ErrUnavailable  = errors.New("unavailable")
)

type AppError struct {
	Err     error  // sentinel the error maps to
	Message string // human-readable, safe to return to the client
	Field   string // optional: offending input field
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound is also returned when the row exists but belongs to someone else.
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

func InvalidToken(message string) *AppError {
	return &AppError{Err: ErrInvalidToken, Message: message}
}

func BadRequest(message string) *AppError {
	return &AppError{Err: ErrBadRequest, Message: message}
}

func Unavailable(message string) *AppError {
	return &AppError{Err: ErrUnavailable, Message: message}
}

// Upstream wraps a failure of an external service (the language model).
func Upstream(service string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrUpstream, err),
		Message: fmt.Sprintf("%s: %v", service, err),
	}
}
