package operation

import (
	"context"
	"encoding/json"

	"github.com/jonwraymond/toolbridge/breaker"
	"github.com/jonwraymond/toolbridge/capability"
	"github.com/jonwraymond/toolbridge/schema"
	"github.com/jonwraymond/toolbridge/transport"
)

// Operation is a runtime-checked caller for one remote capability. Each
// Operation owns the validator built from its descriptor's input shape;
// the validator is never mutated after construction. An Operation's
// lifetime is bounded by the cache entry that produced it.
type Operation struct {
	// Name is the operation name, unique per environment.
	Name string

	// Description is the provider-supplied description, if any.
	Description string

	// Category is the descriptor's derived category tag.
	Category string

	// Environment is the environment the operation was generated for.
	Environment capability.Environment

	validate schema.Validator
	invoke   func(ctx context.Context, args map[string]any) (any, error)
}

// Validate checks args against the operation's validator and returns the
// normalized arguments without touching the network.
func (o *Operation) Validate(args map[string]any) (any, error) {
	return o.validate(toAny(args))
}

// Invoke validates args, calls the provider through the circuit breaker,
// and unwraps the response envelope. Validation failures short-circuit
// before any network activity.
func (o *Operation) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return o.invoke(ctx, args)
}

// newInvoker builds the invoke closure for one descriptor. It closes over
// the environment, the operation name, and the freshly converted
// validator; the transport, breaker, and recorder are shared factory
// collaborators.
func (f *Factory) newInvoker(name string, validate schema.Validator) func(context.Context, map[string]any) (any, error) {
	return func(ctx context.Context, args map[string]any) (any, error) {
		normalized, err := validate(toAny(args))
		if err != nil {
			return nil, err
		}
		callArgs := asArgs(normalized, args)

		envelope, err := breaker.Do(ctx, f.breaker, func(ctx context.Context) (transport.Envelope, error) {
			return f.transport.Invoke(ctx, name, callArgs)
		})
		if err != nil {
			return nil, &InvocationError{Operation: name, Err: err}
		}
		if envelope.IsError {
			return nil, &InvocationError{Operation: name, Err: providerFault(envelope)}
		}

		result := unwrapEnvelope(envelope)
		if f.recorder != nil {
			f.recorder.Record(name, callArgs, result)
		}
		return result, nil
	}
}

// unwrapEnvelope extracts the provider's payload. A structured payload
// wins; otherwise the textual payload is parsed as JSON, falling back to
// the raw text when it is not JSON. Unwrapping never fails.
func unwrapEnvelope(envelope transport.Envelope) any {
	if envelope.Structured != nil {
		return envelope.Structured
	}
	if envelope.Text == "" {
		return nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(envelope.Text), &parsed); err != nil {
		return envelope.Text
	}
	return parsed
}

func providerFault(envelope transport.Envelope) error {
	if envelope.Text != "" {
		return &faultError{text: envelope.Text}
	}
	return ErrProviderFault
}

// faultError carries the provider's failure text while matching
// ErrProviderFault.
type faultError struct {
	text string
}

func (e *faultError) Error() string {
	return "provider reported failure: " + e.text
}

func (e *faultError) Is(target error) bool {
	return target == ErrProviderFault
}

// toAny converts args for the validator, mapping a nil map onto absent
// input so top-level defaults apply.
func toAny(args map[string]any) any {
	if args == nil {
		return nil
	}
	return args
}

// asArgs converts a normalized validator result back to the transport's
// argument map, keeping the original args when the schema normalizes to
// something other than an object.
func asArgs(normalized any, original map[string]any) map[string]any {
	if m, ok := normalized.(map[string]any); ok {
		return m
	}
	return original
}
