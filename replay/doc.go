// Package replay re-issues tracked operation calls against a different
// environment.
//
// The tracker package hands over a faithful, ordered, immutable record
// set; this package resolves the target environment's operations and
// replays the records in ordinal order. Ordering is the whole point:
// later operations may depend on state produced by earlier ones (an
// update targeting an entity created two records earlier, for example),
// so records are never reordered or batched.
//
// By default the first failure stops the replay. ContinueOnError turns
// failures into recorded outcomes instead, for callers that want a full
// dry-run picture before reconciling by hand.
//
//	rep := replay.New(factory, replay.ContinueOnError())
//	outcomes, err := rep.Replay(ctx, trk.Drain(), capability.Production)
package replay
