// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard error categories shared by all domain modules.
var (
	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates a dependency (database, broker) could not be reached.
	ErrUnavailable = errors.New("unavailable")

	// ErrPersistence indicates a write could not be committed to the store.
	ErrPersistence = errors.New("persistence failed")

	// ErrPublish indicates an event could not be delivered to the broker.
	ErrPublish = errors.New("publish failed")
)

// Error is an error with a client-facing message that belongs to a category.
// Error() returns the message unchanged and Unwrap() returns the category, so
// errors.Is(err, ErrInvalidInput) keeps working while handlers can expose the
// message verbatim.
type Error struct {
	kind    error
	message string
}

// Error returns the client-facing message.
func (e *Error) Error() string {
	return e.message
}

// Unwrap returns the error category.
func (e *Error) Unwrap() error {
	return e.kind
}

// WithKind creates an error carrying message that matches kind.
func WithKind(kind error, message string) error {
	return &Error{kind: kind, message: message}
}

// Message returns the client-facing message of the first *Error in err's tree.
// It returns fallback when no such error exists.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.message
	}
	return fallback
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
