package operation

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/toolbridge/capability"
)

// Sentinel errors for operation generation and invocation.
var (
	// ErrGeneration indicates that operation generation failed as a
	// whole, such as discovery producing no descriptors.
	ErrGeneration = errors.New("operation generation failed")

	// ErrInvocation indicates a failure while invoking a generated
	// operation against the provider.
	ErrInvocation = errors.New("operation invocation failed")

	// ErrProviderFault indicates the provider flagged the response
	// envelope as an operation-level failure.
	ErrProviderFault = errors.New("provider reported failure")
)

// GenerationError wraps a total generation failure for one environment.
// Partial failures never become a GenerationError; they are reported and
// excluded instead.
type GenerationError struct {
	// Environment is the environment being generated for.
	Environment capability.Environment

	// Err is the underlying error.
	Err error
}

// Error returns the failure message.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate operations for %s: %v", e.Environment, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// GenerationError matches ErrGeneration to allow sentinel-style checking.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// InvocationError wraps a failure during a single operation invocation.
// The underlying transport or breaker error is preserved, so callers can
// still distinguish "provider is down" from "provider rejected this call".
type InvocationError struct {
	// Operation is the operation name.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error returns the failure message.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// InvocationError matches ErrInvocation to allow sentinel-style checking.
func (e *InvocationError) Is(target error) bool {
	return target == ErrInvocation
}
