// Package errors provides standardized error handling for the PiBoard client
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors that can be used across the application
var (
	// ErrTransport indicates a network or subscription failure; retried
	// with fixed backoff, never fatal
	ErrTransport = errors.New("transport failure")

	// ErrValidationMismatch indicates local and remote state disagree,
	// resolved by re-issuing an update
	ErrValidationMismatch = errors.New("validation mismatch")

	// ErrDataAbsent indicates a missing record or empty result, resolved
	// via the fallback chain rather than surfaced to the user
	ErrDataAbsent = errors.New("data absent")

	// ErrStorage indicates local persistence is unavailable; callers
	// degrade to in-memory fallbacks
	ErrStorage = errors.New("storage unavailable")
)

// Error represents a domain error with additional context
type Error struct {
	// Code is a machine-readable error code
	Code string
	// Message is a human-readable error description
	Message string
	// Op describes the operation that failed
	Op string
	// Err is the underlying error
	Err error
}

// Error implements the error interface with a formatted message
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain handling
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given details
func NewError(code string, message string, op string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// IsTransport returns true if err represents a transport failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsValidationMismatch returns true if err represents a state disagreement
func IsValidationMismatch(err error) bool {
	return errors.Is(err, ErrValidationMismatch)
}

// IsDataAbsent returns true if err represents missing data
func IsDataAbsent(err error) bool {
	return errors.Is(err, ErrDataAbsent)
}

// IsStorage returns true if err represents a local storage failure
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
