// Package apperror defines the errors the HTTP layer knows how to map to a
// status code. Everything else becomes a 500.
package apperror

import (
	"errors"
	"fmt"

	"github.com/sakif/python-playground/internal/locale"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrRateLimited = errors.New("rate limited")
	ErrUnavailable = errors.New("unavailable")
)

type AppError struct {
	Err     error  // sentinel, one of the Err* values above
	Message string // Turkish message shown to the student
	Field   string // Optional: request field causing the error

	// RetryAfter is the number of seconds the client should wait. Only
	// set for ErrRateLimited.
	RetryAfter int
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// RateLimited returns an AppError telling the client to come back in
// retryAfter seconds. HTTP handlers map this to 429 Too Many Requests.
func RateLimited(retryAfter int) *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    locale.RateLimited(retryAfter),
		RetryAfter: retryAfter,
	}
}

// Unavailable reports a dependency that cannot serve requests right now.
// HTTP handlers map this to 503.
func Unavailable(message string, cause error) *AppError {
	err := ErrUnavailable
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrUnavailable, cause)
	}
	return &AppError{
		Err:     err,
		Message: message,
	}
}
