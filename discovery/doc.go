// Package discovery queries a remote provider's operation list and
// normalizes it into capability descriptors.
//
// The service sits between the transport and the operation factory. Each
// environment's descriptor set is cached with a fixed TTL and replaced
// wholesale on re-discovery; a cache hit never touches the transport.
// Misses go through the shared circuit breaker, and concurrent discoveries
// of the same environment are coalesced into a single in-flight listing.
//
// Failures are returned as a discovery [Error] wrapping the transport or
// breaker error, and are never cached: there is no negative caching, so a
// transient provider outage self-heals on the next request.
//
// Invalidation is a peer operation, not a variant of discovery: operators
// can drop one environment's entries or all of them, on a schedule or on
// demand.
package discovery
