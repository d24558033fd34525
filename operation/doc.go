// Package operation generates callable operations from discovered
// capability descriptors.
//
// For each descriptor the factory converts the input shape into a
// validator and closes over the environment, the operation name, and that
// validator to build an [Operation]. Invoking an Operation:
//
//  1. validates the arguments, short-circuiting with a validation error
//     before any network activity,
//  2. calls the transport through the shared circuit breaker,
//  3. unwraps the provider's response envelope: a structured payload wins,
//     otherwise the textual payload is parsed as JSON with the raw text as
//     the defined fallback. Unwrapping never fails.
//
// Completed invocations are handed to an optional [Recorder] (the tracker
// package) for later ordered replay.
//
// # Partial failure
//
// Generation is independent per descriptor and runs concurrently. One
// descriptor's failure is isolated, logged, excluded from the result map,
// and surfaced through [Factory.Report]; it never aborts generation of
// the others. Only a total failure, such as discovery itself failing, is
// an error result, and a discovery failure is propagated unchanged.
//
// Generated operation maps are cached per environment with their own TTL,
// independent of the descriptor cache, because schema conversion and
// closure creation are strictly more expensive than listing.
package operation
