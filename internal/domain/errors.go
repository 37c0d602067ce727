// Package domain holds the quote model, its validation rules and the error
// taxonomy shared by the store backends, the app layer and both front ends.
package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every typed error below unwraps to exactly one of them.
var (
	// ErrNotFound means a lookup or delete matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a create collided with an existing name under the
	// active case policy.
	ErrConflict = errors.New("conflict")

	// ErrValidation means a name or text was rejected before any store access.
	ErrValidation = errors.New("invalid input")

	// ErrUnavailable means the store has no usable connection, or its breaker
	// is open. The operation was not attempted.
	ErrUnavailable = errors.New("store unavailable")

	// ErrFault is any other store failure. Its detail is opaque to callers.
	ErrFault = errors.New("store fault")
)

// NotFoundError names what was looked up.
type NotFoundError struct {
	Entity string
	Name   string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return e.Entity + " not found"
	}

	if e.Entity == EntityQuote {
		return fmt.Sprintf("Quote with name `%s` does not exist.", e.Name)
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError reports that no entity called name exists.
func NewNotFoundError(entity, name string) error {
	return &NotFoundError{Entity: entity, Name: name}
}

// AlreadyExistsError carries the name the caller asked for, not the stored
// spelling it collided with.
type AlreadyExistsError struct {
	Entity string
	Name   string
}

func (e *AlreadyExistsError) Error() string {
	if e.Entity == EntityQuote {
		return fmt.Sprintf("Quote with name `%s` already exists.", e.Name)
	}

	return fmt.Sprintf("%s %q already exists", e.Entity, e.Name)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrConflict }

// NewAlreadyExistsError reports that name is taken.
func NewAlreadyExistsError(entity, name string) error {
	return &AlreadyExistsError{Entity: entity, Name: name}
}

// ValidationError is an input rule violation. Message is shown to members
// verbatim.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError rejects field with a fixed message.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue also records the rejected value for logs.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError names the backend that refused work and why.
type UnavailableError struct {
	Backend string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s store unavailable", e.Backend)
	}

	return fmt.Sprintf("%s store unavailable: %s", e.Backend, e.Reason)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError reports that backend cannot serve requests.
func NewUnavailableError(backend, reason string) error {
	return &UnavailableError{Backend: backend, Reason: reason}
}

// FaultError wraps a driver failure with the operation that hit it.
type FaultError struct {
	Op    string
	Cause error
}

func (e *FaultError) Error() string {
	if e.Cause == nil {
		return e.Op + ": store fault"
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap exposes both ErrFault and the driver error.
func (e *FaultError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrFault}
	}

	return []error{ErrFault, e.Cause}
}

// NewFaultError wraps cause, which may be nil.
func NewFaultError(op string, cause error) error {
	return &FaultError{Op: op, Cause: cause}
}

// IsNotFound reports whether err is in the not found class.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is in the conflict class.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsAlreadyExists reports whether err is a taken name.
func IsAlreadyExists(err error) bool {
	var ae *AlreadyExistsError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is in the invalid input class.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnavailable reports whether err is in the store unavailable class.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsFault reports whether err is in the store fault class.
func IsFault(err error) bool { return errors.Is(err, ErrFault) }
