package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/toolbridge/breaker"
	"github.com/jonwraymond/toolbridge/cache"
	"github.com/jonwraymond/toolbridge/capability"
	"github.com/jonwraymond/toolbridge/discovery"
	"github.com/jonwraymond/toolbridge/operation"
	"github.com/jonwraymond/toolbridge/replay"
	"github.com/jonwraymond/toolbridge/tracker"
	"github.com/jonwraymond/toolbridge/transport"
)

// Common errors for the bridge facade.
var (
	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrOperationNotFound indicates the named operation does not exist
	// in the requested environment.
	ErrOperationNotFound = errors.New("operation not found")
)

// Logger is an optional interface for observability across the bridge's
// components.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort; Logf should not panic.
type Logger interface {
	// Logf logs a formatted message.
	Logf(format string, args ...any)
}

// Config holds the configuration for a Bridge.
type Config struct {
	// Transport is the wire-level collaborator for the remote provider.
	// Required.
	Transport transport.Transport

	// DescriptorTTL is the descriptor cache entry lifetime.
	// Defaults to cache.DefaultTTL.
	DescriptorTTL time.Duration

	// OperationTTL is the operation cache entry lifetime, on its own
	// clock. Defaults to cache.DefaultTTL.
	OperationTTL time.Duration

	// BreakerThreshold is the consecutive-failure count that opens the
	// circuit breaker. Defaults to 3.
	BreakerThreshold int

	// BreakerCoolDown is how long the breaker stays open after the last
	// failure. Defaults to 30s.
	BreakerCoolDown time.Duration

	// Concurrency bounds the per-environment operation generation
	// fan-out. Defaults to 8.
	Concurrency int

	// DisableTracking turns off invocation recording.
	DisableTracking bool

	// Logger is an optional logger for observability.
	Logger Logger
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	if c.Transport == nil {
		return fmt.Errorf("%w: missing required field: Transport", ErrConfiguration)
	}
	return nil
}

// Bridge is the unified facade over discovery, generation, invocation,
// and tracking for one remote provider. It wires one circuit breaker, two
// independent cache tiers, a discovery service, an operation factory, and
// a tracker session, and owns their lifetimes.
type Bridge struct {
	cfg       Config
	transport transport.Transport
	breaker   *breaker.Breaker
	discovery *discovery.Service
	factory   *operation.Factory
	tracker   *tracker.Tracker
}

// New creates a Bridge from the given configuration.
// Returns ErrConfiguration if any required field is missing.
func New(cfg Config) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := breaker.New(
		breaker.WithThreshold(cfg.BreakerThreshold),
		breaker.WithCoolDown(cfg.BreakerCoolDown),
	)

	var discoveryOpts []discovery.Option
	if cfg.Logger != nil {
		discoveryOpts = append(discoveryOpts, discovery.WithLogger(cfg.Logger))
	}
	disco := discovery.New(
		cfg.Transport,
		b,
		cache.New[[]capability.Descriptor](cfg.DescriptorTTL),
		discoveryOpts...,
	)

	var trk *tracker.Tracker
	factoryOpts := []operation.Option{
		operation.WithConcurrency(cfg.Concurrency),
	}
	if cfg.Logger != nil {
		factoryOpts = append(factoryOpts, operation.WithLogger(cfg.Logger))
	}
	if !cfg.DisableTracking {
		trk = tracker.New()
		factoryOpts = append(factoryOpts, operation.WithRecorder(trk))
	}
	factory := operation.New(
		disco,
		cfg.Transport,
		b,
		cache.New[map[string]*operation.Operation](cfg.OperationTTL),
		factoryOpts...,
	)

	return &Bridge{
		cfg:       cfg,
		transport: cfg.Transport,
		breaker:   b,
		discovery: disco,
		factory:   factory,
		tracker:   trk,
	}, nil
}

// Start establishes the transport connection.
func (b *Bridge) Start(ctx context.Context) error {
	return b.transport.Start(ctx)
}

// Stop shuts the transport connection down.
func (b *Bridge) Stop() error {
	return b.transport.Stop()
}

// Discover returns the environment's capability descriptors.
func (b *Bridge) Discover(ctx context.Context, env capability.Environment) ([]capability.Descriptor, error) {
	return b.discovery.Discover(ctx, env)
}

// Operations returns the environment's callable operations.
func (b *Bridge) Operations(ctx context.Context, env capability.Environment) (map[string]*operation.Operation, error) {
	return b.factory.Operations(ctx, env)
}

// Invoke resolves and invokes one named operation in env. The invocation
// is validated, breaker-gated, unwrapped, and recorded like any other.
func (b *Bridge) Invoke(ctx context.Context, env capability.Environment, name string, args map[string]any) (any, error) {
	ops, err := b.factory.Operations(ctx, env)
	if err != nil {
		return nil, err
	}
	op, ok := ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrOperationNotFound, name, env)
	}
	return op.Invoke(ctx, args)
}

// Invalidate drops one environment's entries from both cache tiers.
func (b *Bridge) Invalidate(env capability.Environment) {
	b.discovery.Invalidate(env)
	b.factory.Invalidate(env)
}

// InvalidateAll drops every environment's entries from both cache tiers.
func (b *Bridge) InvalidateAll() {
	b.discovery.InvalidateAll()
	b.factory.InvalidateAll()
}

// GenerationReport returns the latest generation report for env.
func (b *Bridge) GenerationReport(env capability.Environment) (operation.Report, bool) {
	return b.factory.Report(env)
}

// BreakerState returns the observable circuit breaker state.
func (b *Bridge) BreakerState() breaker.State {
	return b.breaker.State()
}

// Records returns the tracked invocation sequence, in ordinal order,
// without clearing it. It returns nil when tracking is disabled.
func (b *Bridge) Records() []tracker.Record {
	if b.tracker == nil {
		return nil
	}
	return b.tracker.Drain()
}

// ClearRecords empties the tracked invocation sequence.
func (b *Bridge) ClearRecords() {
	if b.tracker != nil {
		b.tracker.Clear()
	}
}

// SessionID returns the tracking session identifier, or "" when tracking
// is disabled.
func (b *Bridge) SessionID() string {
	if b.tracker == nil {
		return ""
	}
	return b.tracker.SessionID()
}

// Replay re-issues the currently tracked records, in ordinal order,
// against env.
func (b *Bridge) Replay(ctx context.Context, env capability.Environment, opts ...replay.Option) ([]replay.Outcome, error) {
	return replay.New(b.factory, opts...).Replay(ctx, b.Records(), env)
}
