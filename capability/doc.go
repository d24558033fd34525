// Package capability defines the core vocabulary of the discovery layer:
// environments and capability descriptors.
//
// An Environment is a logical isolation boundary (sandbox, production,
// external). Caches, circuit state, and tracker sessions never cross
// environment boundaries.
//
// A Descriptor is the discovered metadata record for one remote operation,
// prior to becoming a callable operation. Descriptors are created by the
// discovery service from a raw provider listing and are immutable:
// re-discovery replaces an environment's descriptor set wholesale.
package capability
