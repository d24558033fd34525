package replay

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jonwraymond/toolbridge/capability"
	"github.com/jonwraymond/toolbridge/operation"
	"github.com/jonwraymond/toolbridge/tracker"
)

// ErrOperationMissing is returned when a recorded operation does not
// exist in the target environment.
var ErrOperationMissing = errors.New("operation not found in target environment")

// OperationSource resolves an environment's callable operations.
// *operation.Factory satisfies it.
type OperationSource interface {
	Operations(ctx context.Context, env capability.Environment) (map[string]*operation.Operation, error)
}

// Outcome is the result of replaying one record.
type Outcome struct {
	// Record is the replayed record.
	Record tracker.Record

	// Result is the invocation result, when the replay succeeded.
	Result any

	// Err is the failure, when it did not.
	Err error
}

// Replayer re-issues a tracked record sequence against a different
// environment. Replay is strictly ordered by ordinal: later operations
// may depend on state produced by earlier ones, so records are never
// reordered or batched.
type Replayer struct {
	source          OperationSource
	continueOnError bool
}

// Option configures a Replayer.
type Option func(*Replayer)

// ContinueOnError makes the replayer record a failed outcome and keep
// going instead of stopping at the first failure.
func ContinueOnError() Option {
	return func(r *Replayer) {
		r.continueOnError = true
	}
}

// New creates a Replayer over the given operation source.
func New(source OperationSource, opts ...Option) *Replayer {
	r := &Replayer{source: source}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Replay re-issues records, in ordinal order, against env. It returns one
// outcome per attempted record. Without ContinueOnError the first failure
// stops the replay and is returned alongside the outcomes so far; the
// outcomes always tell the full story either way.
func (r *Replayer) Replay(ctx context.Context, records []tracker.Record, env capability.Environment) ([]Outcome, error) {
	ordered := append([]tracker.Record(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Ordinal < ordered[j].Ordinal
	})

	ops, err := r.source.Operations(ctx, env)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(ordered))
	for _, record := range ordered {
		op, ok := ops[record.OperationName]
		if !ok {
			outcome := Outcome{
				Record: record,
				Err:    fmt.Errorf("%w: %s", ErrOperationMissing, record.OperationName),
			}
			outcomes = append(outcomes, outcome)
			if !r.continueOnError {
				return outcomes, outcome.Err
			}
			continue
		}

		result, err := op.Invoke(ctx, record.Args)
		outcomes = append(outcomes, Outcome{Record: record, Result: result, Err: err})
		if err != nil && !r.continueOnError {
			return outcomes, err
		}
	}
	return outcomes, nil
}
