package breaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock is a manually stepped time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(threshold int, coolDown time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	b := New(WithThreshold(threshold), WithCoolDown(coolDown), WithClock(clock.now))
	return b, clock
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	errBoom := errors.New("boom")

	calls := 0
	fail := func(ctx context.Context) (int, error) {
		calls++
		return 0, errBoom
	}

	for i := 0; i < 3; i++ {
		if _, err := Do(context.Background(), b, fail); !errors.Is(err, errBoom) {
			t.Fatalf("call %d error = %v, want boom", i, err)
		}
	}
	if b.State() != Open {
		t.Fatalf("State() = %v after threshold failures, want Open", b.State())
	}

	// The next call fails fast without invoking the function.
	_, err := Do(context.Background(), b, fail)
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("error = %v, want ErrOpen", err)
	}
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("error %T is not *OpenError", err)
	}
	if calls != 3 {
		t.Errorf("function called %d times, want 3", calls)
	}
}

func TestBreaker_CoolDownAdmitsTrial(t *testing.T) {
	b, clock := newTestBreaker(2, time.Minute)
	errBoom := errors.New("boom")

	for i := 0; i < 2; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); !errors.Is(err, ErrOpen) {
		t.Fatalf("Allow() = %v, want ErrOpen", err)
	}

	clock.advance(time.Minute)

	// Cool-down elapsed: the next call reaches the function again.
	calls := 0
	_, err := Do(context.Background(), b, func(ctx context.Context) (int, error) {
		calls++
		return 0, errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("trial error = %v, want boom", err)
	}
	if calls != 1 {
		t.Fatalf("trial called %d times, want 1", calls)
	}

	// The trial failure re-opened the breaker.
	if err := b.Allow(); !errors.Is(err, ErrOpen) {
		t.Errorf("Allow() after failed trial = %v, want ErrOpen", err)
	}
}

func TestBreaker_TrialSuccessCloses(t *testing.T) {
	b, clock := newTestBreaker(2, time.Minute)
	b.RecordFailure()
	b.RecordFailure()
	clock.advance(2 * time.Minute)

	got, err := Do(context.Background(), b, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("trial = %q, %v, want ok, nil", got, err)
	}
	if b.Failures() != 0 {
		t.Errorf("Failures() = %d after success, want 0", b.Failures())
	}
	if b.State() != Closed {
		t.Errorf("State() = %v, want Closed", b.State())
	}
}

func TestBreaker_SuccessResetsCounter(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	errBoom := errors.New("boom")

	fail := func(ctx context.Context) (int, error) { return 0, errBoom }
	ok := func(ctx context.Context) (int, error) { return 1, nil }

	_, _ = Do(context.Background(), b, fail)
	_, _ = Do(context.Background(), b, fail)
	_, _ = Do(context.Background(), b, ok)
	_, _ = Do(context.Background(), b, fail)
	_, _ = Do(context.Background(), b, fail)

	// Two failures, success, two failures: never three consecutive.
	if b.State() != Closed {
		t.Errorf("State() = %v, want Closed", b.State())
	}
	if b.Failures() != 2 {
		t.Errorf("Failures() = %d, want 2", b.Failures())
	}
}

func TestBreaker_CancellationIsNeutral(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Do(ctx, b, func(ctx context.Context) (int, error) {
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if b.Failures() != 0 {
		t.Errorf("Failures() = %d after cancellation, want 0", b.Failures())
	}
	if b.State() != Closed {
		t.Errorf("State() = %v after cancellation, want Closed", b.State())
	}

	// Deadline expiry is equally neutral.
	_, err = Do(context.Background(), b, func(ctx context.Context) (int, error) {
		return 0, context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if b.Failures() != 0 {
		t.Errorf("Failures() = %d after deadline, want 0", b.Failures())
	}
}

func TestBreaker_Defaults(t *testing.T) {
	b := New()
	if b.threshold != defaultThreshold {
		t.Errorf("threshold = %d, want %d", b.threshold, defaultThreshold)
	}
	if b.coolDown != defaultCoolDown {
		t.Errorf("coolDown = %v, want %v", b.coolDown, defaultCoolDown)
	}
}
