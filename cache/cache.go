package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	payload   T
	expiresAt time.Time
}

// Store is a time-boxed key/value store. Entries are replaced wholesale on
// Set and silently dropped once their TTL elapses; there is no partial
// update and no persistence. Each Store has its own TTL clock, so the
// descriptor tier and the operation tier expire independently.
//
// Store is safe for concurrent use.
type Store[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[T]
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithClock sets the time source. Tests use this to step entries past
// their expiry deterministically.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Store with the given entry TTL. A non-positive TTL falls
// back to DefaultTTL.
func New[T any](ttl time.Duration, opts ...Option[T]) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[T]),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the unexpired payload for key. An expired entry is dropped
// and reported as a miss.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		var zero T
		return zero, false
	}
	return e.payload, true
}

// Set stores payload under key, replacing any previous entry and starting
// a fresh TTL window.
func (s *Store[T]) Set(key string, payload T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{
		payload:   payload,
		expiresAt: s.now().Add(s.ttl),
	}
}

// Invalidate drops the entry for key, if any.
func (s *Store[T]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidateAll drops every entry.
func (s *Store[T]) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry[T])
}

// Len returns the number of stored entries, including any not yet
// evicted expired ones.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
