// Package transport defines the wire-level collaborator boundary of the
// discovery layer.
//
// A Transport speaks to one remote, schema-describing provider. It exposes
// exactly two request/response operations: listing the provider's named
// operations and invoking one of them. Everything below that boundary
// (authentication, connection management, protocol framing) belongs to the
// implementation; everything above it (validation, caching, circuit
// breaking, tracking) belongs to the discovery layer.
//
// The mcpclient subpackage implements Transport over the Model Context
// Protocol. Tests throughout the module implement Transport with small
// in-memory stubs.
package transport
