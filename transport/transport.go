package transport

import (
	"context"
	"errors"
	"fmt"
)

// Common errors for transport operations.
var (
	// ErrTransport is the sentinel matched by every transport Error.
	ErrTransport = errors.New("transport error")

	// ErrNotConnected is returned when the transport is used before
	// Start or after Stop.
	ErrNotConnected = errors.New("transport not connected")
)

// Listing is one raw entry of a provider's operation list, prior to
// becoming a capability descriptor.
type Listing struct {
	// Name is the provider's operation name.
	Name string

	// Description is the provider-supplied description, if any.
	Description string

	// InputSchema is the raw JSON-Schema-like input description, or nil
	// when the provider did not describe one.
	InputSchema map[string]any
}

// Envelope is a provider's raw response to one invocation. Providers may
// wrap structured payloads in text; unwrapping is the operation layer's
// concern, the transport only carries the envelope.
type Envelope struct {
	// Text is the first textual payload, if any.
	Text string

	// Structured is the provider's structured payload, if it sent one.
	Structured any

	// IsError reports whether the provider flagged the response as an
	// operation-level failure.
	IsError bool
}

// Transport is the wire-level collaborator for one remote provider.
// Authentication, connection management, and protocol framing are entirely
// the transport's responsibility.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods must honor cancellation/deadlines.
// - Errors: provider-level failures are returned as *Error (matching
//   ErrTransport); context errors pass through unwrapped.
type Transport interface {
	// ListOperations returns the provider's current operation list.
	ListOperations(ctx context.Context) ([]Listing, error)

	// Invoke executes a named operation with the given arguments.
	Invoke(ctx context.Context, name string, args map[string]any) (Envelope, error)

	// Start establishes the connection (handshake, subprocess, etc.).
	Start(ctx context.Context) error

	// Stop gracefully shuts down the connection.
	Stop() error
}

// Error wraps a provider-level transport failure.
type Error struct {
	// Op is the transport operation that failed ("list", "invoke", "start").
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns the failure message.
func (e *Error) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// Error matches ErrTransport to allow sentinel-style error checking.
func (e *Error) Is(target error) bool {
	return target == ErrTransport
}
