// Package breaker provides a circuit breaker for calls against a remote
// provider.
//
// The breaker has two states. While Closed, calls pass through and any
// success resets the consecutive-failure counter. After a threshold of
// consecutive failures the breaker is Open: calls fail fast with an
// [OpenError] and the provider is not touched. Once the cool-down has
// elapsed since the last failure, the next call is admitted as an ordinary
// trial; its failure re-opens the breaker, its success closes it.
//
// Cancellation is neutral: a call that ends with context.Canceled or
// context.DeadlineExceeded counts as neither success nor failure, since
// the outcome is indeterminate rather than a provider fault.
//
// # Usage
//
//	b := breaker.New(breaker.WithThreshold(3), breaker.WithCoolDown(30*time.Second))
//
//	listing, err := breaker.Do(ctx, b, func(ctx context.Context) ([]transport.Listing, error) {
//	    return tp.ListOperations(ctx)
//	})
//	if errors.Is(err, breaker.ErrOpen) {
//	    // provider is down; fail fast
//	}
package breaker
