package breaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrOpen is the sentinel matched by every OpenError.
var ErrOpen = errors.New("circuit open")

// OpenError is returned when a call is rejected because the breaker is
// open. It is distinct from a transport failure so callers can tell
// "provider is down" apart from "provider rejected this call".
type OpenError struct {
	// RetryAt is when the cool-down expires and calls are admitted again.
	RetryAt time.Time
}

// Error returns the rejection message.
func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit open until %s", e.RetryAt.Format(time.RFC3339))
}

// Is reports whether this error matches the target.
// OpenError matches ErrOpen for sentinel-style checking.
func (e *OpenError) Is(target error) bool {
	return target == ErrOpen
}

// State is the observable breaker state.
type State int

const (
	// Closed is the normal operating state: calls pass through.
	Closed State = iota
	// Open means the breaker has tripped: calls fail fast.
	Open
)

// String makes State satisfy the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

const (
	defaultThreshold = 3
	defaultCoolDown  = 30 * time.Second
)

// Breaker guards calls against a single remote provider. After Threshold
// consecutive failures it opens and rejects calls without touching the
// provider; once CoolDown has elapsed since the last failure the next call
// is admitted as a normal trial whose failure re-opens the breaker.
//
// There is no half-open state: cool-down expiry is the only open/closed
// gate. One breaker is shared by all operations against one transport,
// because provider failures are usually connection-wide rather than
// operation-specific.
type Breaker struct {
	mu          sync.Mutex
	threshold   int
	coolDown    time.Duration
	now         func() time.Time
	failures    int
	lastFailure time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithThreshold sets the consecutive-failure count that opens the breaker.
func WithThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithCoolDown sets how long the breaker stays open after the last failure.
func WithCoolDown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.coolDown = d
		}
	}
}

// WithClock sets the time source. Tests use this to step through the
// cool-down window deterministically.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a Breaker. Defaults: threshold 3, cool-down 30s.
func New(opts ...Option) *Breaker {
	b := &Breaker{
		threshold: defaultThreshold,
		coolDown:  defaultCoolDown,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Allow reports whether a call may proceed. It returns nil when the call
// is admitted, or an OpenError when the breaker is open and the cool-down
// has not yet elapsed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.threshold {
		return nil
	}
	retryAt := b.lastFailure.Add(b.coolDown)
	if !b.now().Before(retryAt) {
		// Cool-down elapsed: admit the next call as a normal trial.
		return nil
	}
	return &OpenError{RetryAt: retryAt}
}

// RecordSuccess resets the consecutive-failure counter.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
}

// RecordFailure counts one provider failure.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = b.now()
}

// State returns the observable breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures >= b.threshold && b.now().Before(b.lastFailure.Add(b.coolDown)) {
		return Open
	}
	return Closed
}

// Failures returns the current consecutive-failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Do runs fn under the breaker. An open breaker rejects the call with an
// OpenError before fn runs. A cancelled call (context.Canceled or
// context.DeadlineExceeded) moves the failure counter in neither
// direction: the outcome is indeterminate, not a provider fault.
func Do[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := b.Allow(); err != nil {
		return zero, err
	}
	out, err := fn(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		b.RecordFailure()
		return zero, err
	}
	b.RecordSuccess()
	return out, nil
}
