package discovery

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/toolbridge/breaker"
	"github.com/jonwraymond/toolbridge/cache"
	"github.com/jonwraymond/toolbridge/capability"
	"github.com/jonwraymond/toolbridge/schema"
	"github.com/jonwraymond/toolbridge/transport"
)

// ErrDiscovery is the sentinel matched by every discovery Error.
var ErrDiscovery = errors.New("discovery failed")

// Error wraps a failure that occurred while discovering an environment's
// capabilities, preserving the underlying transport or breaker error.
type Error struct {
	// Environment is the environment being discovered.
	Environment capability.Environment

	// Err is the underlying error.
	Err error
}

// Error returns the failure message.
func (e *Error) Error() string {
	return fmt.Sprintf("discover %s: %v", e.Environment, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// Error matches ErrDiscovery to allow sentinel-style error checking.
func (e *Error) Is(target error) bool {
	return target == ErrDiscovery
}

// Logger is an optional interface for discovery diagnostics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort; Logf should not panic.
type Logger interface {
	// Logf logs a formatted message.
	Logf(format string, args ...any)
}

// Service discovers a remote provider's capabilities per environment.
//
// Discovery is cache-checked (a hit is silent and synchronous), gated by
// the shared circuit breaker, and coalesced: concurrent discoveries of the
// same environment share one in-flight transport call instead of racing to
// populate the cache. Failures are returned, never cached, so a transient
// provider outage self-heals on the next request.
//
// Service is safe for concurrent use. Only Service mutates the descriptor
// cache it owns.
type Service struct {
	transport transport.Transport
	breaker   *breaker.Breaker
	store     *cache.Store[[]capability.Descriptor]
	group     singleflight.Group
	logger    Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a logger for discovery diagnostics.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a discovery Service. The descriptor store is injected so
// the composition root decides its lifetime; the breaker is shared with
// every other caller of the same transport.
func New(tp transport.Transport, b *breaker.Breaker, store *cache.Store[[]capability.Descriptor], opts ...Option) *Service {
	s := &Service{
		transport: tp,
		breaker:   b,
		store:     store,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover returns the environment's capability descriptors, from cache
// when fresh, otherwise from one coalesced, breaker-gated transport
// listing. The stored descriptor set is replaced wholesale: no partial
// list is ever cached.
func (s *Service) Discover(ctx context.Context, env capability.Environment) ([]capability.Descriptor, error) {
	key := env.String()
	if descriptors, ok := s.store.Get(key); ok {
		return descriptors, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Double-check after acquiring the flight: a concurrent caller
		// may have populated the cache while this one queued.
		if descriptors, ok := s.store.Get(key); ok {
			return descriptors, nil
		}

		listings, err := breaker.Do(ctx, s.breaker, func(ctx context.Context) ([]transport.Listing, error) {
			return s.transport.ListOperations(ctx)
		})
		if err != nil {
			return nil, err
		}

		descriptors := s.mapListings(env, listings)
		s.store.Set(key, descriptors)
		return descriptors, nil
	})
	if err != nil {
		return nil, &Error{Environment: env, Err: err}
	}
	return v.([]capability.Descriptor), nil
}

// Invalidate drops one environment's cached descriptors.
func (s *Service) Invalidate(env capability.Environment) {
	s.store.Invalidate(env.String())
}

// InvalidateAll drops every environment's cached descriptors.
func (s *Service) InvalidateAll() {
	s.store.InvalidateAll()
}

// mapListings converts raw listings into descriptors. Listings without a
// name cannot become callable operations and are skipped with a
// diagnostic.
func (s *Service) mapListings(env capability.Environment, listings []transport.Listing) []capability.Descriptor {
	descriptors := make([]capability.Descriptor, 0, len(listings))
	for _, listing := range listings {
		if listing.Name == "" {
			s.logf("discovery: skipping unnamed listing in %s", env)
			continue
		}
		descriptors = append(descriptors, capability.Descriptor{
			Name:        listing.Name,
			Description: listing.Description,
			Category:    capability.DeriveCategory(listing.Name),
			InputShape:  schema.ParseDocument(listing.InputSchema),
			Environment: env,
		})
	}
	return descriptors
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Logf(format, args...)
	}
}
