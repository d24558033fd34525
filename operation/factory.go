package operation

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/toolbridge/breaker"
	"github.com/jonwraymond/toolbridge/cache"
	"github.com/jonwraymond/toolbridge/capability"
	"github.com/jonwraymond/toolbridge/discovery"
	"github.com/jonwraymond/toolbridge/schema"
	"github.com/jonwraymond/toolbridge/transport"
)

// defaultConcurrency bounds the per-environment fan-out of descriptor
// conversion and closure construction.
const defaultConcurrency = 8

// Logger is an optional interface for generation diagnostics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort; Logf should not panic.
type Logger interface {
	// Logf logs a formatted message.
	Logf(format string, args ...any)
}

// Recorder receives completed invocations for later replay. The tracker
// package provides the standard implementation.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ordering: Record is called once per completed invocation, in
//   completion order.
type Recorder interface {
	// Record appends one completed invocation.
	Record(operationName string, args map[string]any, result any)
}

// Report summarizes one generation pass for an environment. Partial
// failures are reported here rather than failing the pass.
type Report struct {
	// Environment is the environment the pass generated for.
	Environment capability.Environment

	// Generated is the number of operations produced.
	Generated int

	// Failed maps descriptor names (or ordinal placeholders for unnamed
	// descriptors) to their generation failure.
	Failed map[string]error
}

// Factory turns discovered capability descriptors into callable
// Operations, one validator and one invoke closure per descriptor.
//
// Generation is cache-checked per environment, coalesced, and
// per-descriptor independent: one descriptor's failure is isolated,
// logged, and excluded from the result map without aborting the others.
// Only a total failure (discovery itself failed) is an error.
//
// Factory is safe for concurrent use. Only Factory mutates the operation
// cache it owns.
type Factory struct {
	discovery   *discovery.Service
	transport   transport.Transport
	breaker     *breaker.Breaker
	store       *cache.Store[map[string]*Operation]
	group       singleflight.Group
	logger      Logger
	recorder    Recorder
	concurrency int

	mu      sync.Mutex
	reports map[string]Report
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets a logger for generation diagnostics.
func WithLogger(l Logger) Option {
	return func(f *Factory) {
		f.logger = l
	}
}

// WithRecorder sets the recorder that receives completed invocations.
func WithRecorder(r Recorder) Option {
	return func(f *Factory) {
		f.recorder = r
	}
}

// WithConcurrency bounds the per-environment generation fan-out.
func WithConcurrency(n int) Option {
	return func(f *Factory) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// New creates a Factory. The operation store is injected so the
// composition root decides its lifetime; its TTL clock is independent of
// the descriptor cache because generation is strictly more expensive than
// listing. The breaker is the same instance the discovery service uses:
// one breaker per transport.
func New(d *discovery.Service, tp transport.Transport, b *breaker.Breaker, store *cache.Store[map[string]*Operation], opts ...Option) *Factory {
	f := &Factory{
		discovery:   d,
		transport:   tp,
		breaker:     b,
		store:       store,
		concurrency: defaultConcurrency,
		reports:     make(map[string]Report),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Operations returns the environment's callable operations, from cache
// when fresh, otherwise generated from a fresh discovery. A discovery
// failure is propagated unchanged.
func (f *Factory) Operations(ctx context.Context, env capability.Environment) (map[string]*Operation, error) {
	key := env.String()
	if ops, ok := f.store.Get(key); ok {
		return ops, nil
	}

	v, err, _ := f.group.Do(key, func() (any, error) {
		if ops, ok := f.store.Get(key); ok {
			return ops, nil
		}

		descriptors, err := f.discovery.Discover(ctx, env)
		if err != nil {
			return nil, err
		}

		ops := f.generate(env, descriptors)
		if len(ops) == 0 && len(descriptors) > 0 {
			// Every descriptor failed: that is a total failure, not a
			// partial one, and an empty map must not be cached.
			return nil, &GenerationError{
				Environment: env,
				Err:         fmt.Errorf("no operations generated from %d descriptors", len(descriptors)),
			}
		}
		f.store.Set(key, ops)
		return ops, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]*Operation), nil
}

// Invalidate drops one environment's cached operations.
func (f *Factory) Invalidate(env capability.Environment) {
	f.store.Invalidate(env.String())
}

// InvalidateAll drops every environment's cached operations.
func (f *Factory) InvalidateAll() {
	f.store.InvalidateAll()
}

// Report returns the latest generation report for an environment.
func (f *Factory) Report(env capability.Environment) (Report, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[env.String()]
	return r, ok
}

// generate builds operations for every descriptor independently and
// concurrently, collecting successes and failures without ordering
// dependency between descriptors.
func (f *Factory) generate(env capability.Environment, descriptors []capability.Descriptor) map[string]*Operation {
	ops := make(map[string]*Operation, len(descriptors))
	failed := make(map[string]error)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, descriptor := range descriptors {
		g.Go(func() error {
			op, err := f.build(env, descriptor)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				name := descriptor.Name
				if name == "" {
					name = fmt.Sprintf("descriptor#%d", i)
				}
				failed[name] = err
				return nil
			}
			ops[op.Name] = op
			return nil
		})
	}
	_ = g.Wait()

	for name, err := range failed {
		f.logf("operation: skipping %s in %s: %v", name, env, err)
	}

	report := Report{Environment: env, Generated: len(ops)}
	if len(failed) > 0 {
		report.Failed = failed
	}
	f.mu.Lock()
	f.reports[env.String()] = report
	f.mu.Unlock()

	return ops
}

// build converts one descriptor into an Operation. A panic during
// conversion or closure construction is recovered into an error so a
// single degenerate descriptor cannot abort the batch.
func (f *Factory) build(env capability.Environment, descriptor capability.Descriptor) (op *Operation, err error) {
	defer func() {
		if r := recover(); r != nil {
			op = nil
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()

	if descriptor.Name == "" {
		return nil, fmt.Errorf("descriptor has no name")
	}

	var convertOpts []schema.ConvertOption
	if f.logger != nil {
		convertOpts = append(convertOpts, schema.WithLogger(f.logger))
	}
	validate := schema.Convert(descriptor.InputShape, convertOpts...)

	return &Operation{
		Name:        descriptor.Name,
		Description: descriptor.Description,
		Category:    descriptor.Category,
		Environment: env,
		validate:    validate,
		invoke:      f.newInvoker(descriptor.Name, validate),
	}, nil
}

func (f *Factory) logf(format string, args ...any) {
	if f.logger != nil {
		f.logger.Logf(format, args...)
	}
}
