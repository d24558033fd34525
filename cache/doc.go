// Package cache provides a small in-memory TTL store.
//
// The discovery layer keeps two independent cache tiers: one for
// discovered capability descriptors and one for generated operations.
// Operation generation (schema conversion plus closure creation) is
// strictly more expensive than descriptor listing, so the tiers expire
// and invalidate independently. Both tiers are instances of [Store].
//
// Entries are replaced wholesale, never merged. A process restart empties
// every store, which is acceptable because re-discovery is idempotent and
// bounded in cost.
package cache
