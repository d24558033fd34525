// Package tracker records completed operation calls for ordered replay.
//
// A Tracker owns one session's append-only record sequence. Each record
// carries the operation name, the arguments the transport received, the
// unwrapped result, a timestamp, and an auto-incrementing ordinal. The
// ordinal order matches call completion order and must be preserved by
// any replay collaborator: later operations may depend on state produced
// by earlier ones, such as an update targeting an entity created earlier
// in the same sequence.
//
// Drain returns the sequence without clearing it; Clear empties it
// explicitly. The Tracker satisfies the operation package's Recorder
// interface, so wiring it into a factory is one option:
//
//	trk := tracker.New()
//	f := operation.New(disco, tp, b, store, operation.WithRecorder(trk))
package tracker
