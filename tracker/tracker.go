package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record captures one completed operation call for later replay.
type Record struct {
	// Ordinal is the record's position in the session, starting at 0.
	// Replay is order-sensitive: later operations may depend on state
	// produced by earlier ones.
	Ordinal int `json:"ordinal"`

	// OperationName is the name of the invoked operation.
	OperationName string `json:"operationName"`

	// Args contains the arguments the transport received.
	Args map[string]any `json:"args,omitempty"`

	// Result is the unwrapped invocation result.
	Result any `json:"result,omitempty"`

	// Timestamp is when the call completed.
	Timestamp time.Time `json:"timestamp"`
}

// Tracker records completed operation calls as an append-only, strictly
// ordered sequence, scoped to one tracking session. It performs no
// validation of arguments or results: the operation that produced them
// already validated the input.
//
// Tracker is safe for concurrent use.
type Tracker struct {
	sessionID string
	now       func() time.Time

	mu      sync.Mutex
	records []Record
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// New creates a Tracker with a fresh session ID.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SessionID returns the tracking session identifier.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Record appends one completed call with the next ordinal and the current
// timestamp. Args are deep-copied so later caller mutation cannot corrupt
// the record.
func (t *Tracker) Record(operationName string, args map[string]any, result any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, Record{
		Ordinal:       len(t.records),
		OperationName: operationName,
		Args:          copyArgs(args),
		Result:        result,
		Timestamp:     t.now(),
	})
}

// Drain returns the full ordered record sequence without clearing it.
// The returned slice is caller-owned.
func (t *Tracker) Drain() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Record(nil), t.records...)
}

// Clear empties the sequence. Subsequent records start again at ordinal 0.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = nil
}

// Len returns the number of records in the session.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

func copyArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyArgs(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
