package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryRouting  Category = "routing"
	CategoryProtocol Category = "protocol"
	CategoryDeploy   Category = "deploy"
	CategoryCLI      Category = "cli"
)

// StarterError is a structured error with a code, explanation and hint.
type StarterError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *StarterError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *StarterError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *StarterError) WithDetail(d string) *StarterError {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *StarterError) WithSuggestion(s string) *StarterError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *StarterError) Wrap(err error) *StarterError {
	e.Wrapped = err
	return e
}

// New creates a StarterError from a registered error code.
func New(code string) *StarterError {
	template, ok := registry[code]
	if !ok {
		return &StarterError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &StarterError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new StarterError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *StarterError {
	return &StarterError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a StarterError. An error that already
// is, or wraps, a StarterError is returned as that StarterError.
func FromError(err error, code string) *StarterError {
	if err == nil {
		return nil
	}
	var se *StarterError
	if errors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is or wraps a StarterError with code.
func HasCode(err error, code string) bool {
	var se *StarterError
	for err != nil {
		if !errors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Wrapped
	}
	return false
}
