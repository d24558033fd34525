package schema

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel matched by every ValidationError.
var ErrValidation = errors.New("validation error")

// ErrorKind classifies validation failures.
type ErrorKind int

const (
	// TypeMismatch indicates a value of the wrong type.
	TypeMismatch ErrorKind = iota
	// EnumMismatch indicates a value outside the allowed set.
	EnumMismatch
	// MissingRequired indicates an absent required object property.
	MissingRequired
)

// String makes ErrorKind satisfy the fmt.Stringer interface.
func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case EnumMismatch:
		return "enum mismatch"
	case MissingRequired:
		return "missing required"
	default:
		return "unknown"
	}
}

// ValidationError describes why a value failed a generated validator.
// It is surfaced to the caller before any network activity and is never
// retried automatically.
type ValidationError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Path locates the offending value within the input ("" for the
	// root, "perPage" or "filters.status" for nested values).
	Path string

	// Message describes the failure.
	Message string
}

// Error returns the message, including the path if available.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %q: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether this error matches the target.
// ValidationError matches ErrValidation for sentinel-style checking.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
