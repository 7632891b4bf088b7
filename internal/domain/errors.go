package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidID indicates a malformed identifier, as opposed to a
	// well-formed one that resolves to nothing (ErrNotFound).
	ErrInvalidID = errors.New("invalid identifier")
	// ErrUnauthenticated indicates that no principal is attached to a
	// request that requires one.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates that the principal lacks ownership or
	// authorship of the target resource.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates a field-level validation failure.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrUpstream indicates that an external collaborator (geocoder,
	// media store) failed. Propagated to the boundary, never retried.
	ErrUpstream = errors.New("upstream service failure")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")

	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError carries the offending field alongside the reason, so the
// boundary can report which input was rejected. errors.Is matches it
// against ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input data: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
