// Package bridge is the single entry point for consuming a remote
// capability provider. It composes the lower layers into one facade: a
// transport, a shared circuit breaker, a descriptor cache, an operation
// cache, an invocation tracker, and the discovery and factory services
// that feed them.
//
// # Composition
//
// New wires everything from one Config. The only required field is the
// Transport; every tunable has the same default it has in its own
// package, so a minimal setup is two lines:
//
//	b, err := bridge.New(bridge.Config{Transport: tp})
//	if err != nil {
//		return err
//	}
//
// # Invoking operations
//
// Operations returns the callable set for an environment, generating and
// caching it on first use. Invoke is a convenience that resolves one
// operation by name and calls it:
//
//	result, err := b.Invoke(ctx, capability.Sandbox, "list-items", map[string]any{
//		"query": "alpha",
//	})
//
// # Tracking and replay
//
// Unless tracking is disabled, every successful invocation is recorded
// with a dense per-session ordinal. Records returns the sequence and
// Replay re-issues it, in order, against any environment:
//
//	outcomes, err := b.Replay(ctx, capability.Production)
//
// # Lifecycle
//
// Start and Stop delegate to the transport. A Bridge holds no other
// external resources; dropping it after Stop is sufficient cleanup.
package bridge
