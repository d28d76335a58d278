// Package provider implements clients for external model services.
package provider

import "fmt"

// Error describes a failure of an external provider call.
type Error struct {
	operation  string
	statusCode int
	message    string
	wrapped    error
}

// NewError creates a provider Error.
func NewError(operation string, statusCode int, message string, wrapped error) *Error {
	return &Error{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		wrapped:    wrapped,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.operation, e.message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error { return e.wrapped }

// StatusCode returns the HTTP status code, or 0 when the failure happened
// before a response arrived.
func (e *Error) StatusCode() int { return e.statusCode }

// Operation returns the failed operation name.
func (e *Error) Operation() string { return e.operation }
