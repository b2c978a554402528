package api

import "time"

// Engine is the board flow engine API.
//
// All mutating operations are atomic: on rejection the board is unchanged and
// a typed *Rejection is returned. The engine is a single logical writer —
// mutations on one instance execute to completion before the next is
// accepted — and performs no I/O; persisting accepted transitions is the
// caller's (or Session's) responsibility.
type Engine interface {
	// Snapshot returns an immutable copy of the current board aggregate.
	Snapshot() FlowSnapshot

	// MoveItem moves an item to the target stage at the hinted position.
	// Moving within the current stage is a pure reorder: it never checks
	// the WIP limit and never resets the item's aging clock. A
	// stage-changing move sets EnteredStageAt to the current time.
	MoveItem(itemID, targetStageID string, pos PositionHint) (FlowSnapshot, error)

	// AddItem places a brand-new item on the board. The WIP check applies
	// as for an inbound move, since this is logically a transition from
	// "nowhere". When init.ID is empty a UUID is assigned; the returned
	// item carries the final id and resolved rank.
	AddItem(init WorkItemInit) (WorkItem, FlowSnapshot, error)

	// RemoveItem removes the item from whichever stage holds it. Removing
	// an unknown id is a no-op, not an error, so retried client calls stay
	// idempotent. The returned bool reports whether anything was removed.
	RemoveItem(itemID string) (FlowSnapshot, bool)

	// RenormalizeStage reassigns the stage's ranks to evenly spaced
	// integers, preserving order. It is the always-accepted remedy for
	// ReasonRankCollision. Fails only for an unknown stage.
	RenormalizeStage(stageID string) (FlowSnapshot, error)

	// AgingReport classifies every item on the board against the
	// configured aging policy at the given reference time. The result is
	// eager and finite, ordered like the snapshot.
	AgingReport(now time.Time) []AgingEntry

	// WipStatus derives the occupancy of one stage from current counts.
	WipStatus(stageID string) (WipStatus, error)

	// WipStatuses returns the status of every stage in pipeline order.
	WipStatuses() []WipStatus
}
