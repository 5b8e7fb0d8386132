// Package apperrors holds the typed operational errors that the service
// layer returns and the controllers map to HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError means the caller sent something unusable
type ValidationError struct {
	Op  string
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("validation: %s: %s", e.Op, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidation wraps a caller error
func NewValidation(op, msg string, err error) error {
	return &ValidationError{Op: op, Msg: msg, Err: err}
}

// NotFoundError means the requested item does not exist
type NotFoundError struct {
	Op  string
	Msg string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s: %s", e.Op, e.Msg)
}

// NewNotFound reports a missing item
func NewNotFound(op, msg string) error {
	return &NotFoundError{Op: op, Msg: msg}
}

// UnavailableError means a backing system (database, index, geocoder) is
// not configured or not reachable
type UnavailableError struct {
	Op     string
	System string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %s: %v", e.System, e.Op, e.Err)
	}
	return fmt.Sprintf("%s unavailable: %s", e.System, e.Op)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// NewUnavailable reports a missing or failing backing system
func NewUnavailable(op, system string, err error) error {
	return &UnavailableError{Op: op, System: system, Err: err}
}

// IsValidation reports whether err wraps a *ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err wraps a *NotFoundError
func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

// IsUnavailable reports whether err wraps an *UnavailableError
func IsUnavailable(err error) bool {
	var v *UnavailableError
	return errors.As(err, &v)
}
