// Package errors provides standardized error types for the domain layer.
// Configuration errors are fatal and abort startup; backend errors are
// soft failures the caller may absorb or escalate.
package errors

import (
	"errors"
	"fmt"
)

// Standard error categories
var (
	// ErrInvalidConfiguration indicates a configuration field violates its declared range
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrBackendUnavailable indicates the Firestore backend could not be reached or authenticated
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound indicates the requested record was not found
	ErrNotFound = errors.New("record not found")
)

// ConfigError reports which field failed validation and the constraint it violated.
type ConfigError struct {
	Field      string
	Constraint string
	Value      interface{}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s (got %v)", e.Field, e.Constraint, e.Value)
}

// Unwrap returns the underlying sentinel
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// InvalidField creates a validation error for a single configuration field
func InvalidField(field, constraint string, value interface{}) *ConfigError {
	return &ConfigError{
		Field:      field,
		Constraint: constraint,
		Value:      value,
	}
}

// BackendError carries the structured reason a backend handle could not be
// established. It is returned to the caller instead of being swallowed, so
// contexts that require persistence can treat it as fatal.
type BackendError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("backend unavailable: %s", e.Reason)
}

// Unwrap returns the underlying error
func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target
func (e *BackendError) Is(target error) bool {
	if target == ErrBackendUnavailable {
		return true
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// BackendUnavailable creates a backend error with a structured reason
func BackendUnavailable(reason string, err error) *BackendError {
	return &BackendError{
		Reason: reason,
		Err:    err,
	}
}
