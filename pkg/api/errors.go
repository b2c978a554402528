package api

import (
	"errors"
	"fmt"
)

// RejectReason classifies why the engine refused a transition. Every reason
// is an expected, recoverable, caller-visible outcome; none corrupts board
// state and the engine never logs them on the caller's behalf.
type RejectReason string

const (
	// ReasonItemNotFound: the referenced item is not on the board.
	ReasonItemNotFound RejectReason = "ITEM_NOT_FOUND"

	// ReasonUnknownStage: the target stage is not configured for the board.
	ReasonUnknownStage RejectReason = "UNKNOWN_STAGE"

	// ReasonWipLimitExceeded: the inbound move would push the target stage
	// past its finite WIP limit. Same-stage reorders never produce this.
	ReasonWipLimitExceeded RejectReason = "WIP_LIMIT_EXCEEDED"

	// ReasonRankCollision: midpoint rank allocation ran out of precision.
	// The remedy is to renormalize the stage and retry the move.
	ReasonRankCollision RejectReason = "RANK_COLLISION"

	// ReasonDuplicateItem: AddItem was given an id already on the board.
	ReasonDuplicateItem RejectReason = "DUPLICATE_ITEM"
)

// Rejection is the typed error returned by mutating engine operations. It
// carries enough context for the presentation layer to build a specific
// message (distinguishing "this stage is full" from "that item no longer
// exists") without the engine choosing the wording.
type Rejection struct {
	Reason  RejectReason
	ItemID  string
	StageID string

	// Limit and Count are populated for ReasonWipLimitExceeded: the
	// stage's ceiling and the occupancy that would have resulted.
	Limit int
	Count int
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonItemNotFound:
		return fmt.Sprintf("flowboard: item %q not found", r.ItemID)
	case ReasonUnknownStage:
		return fmt.Sprintf("flowboard: unknown stage %q", r.StageID)
	case ReasonWipLimitExceeded:
		return fmt.Sprintf("flowboard: stage %q is at its WIP limit (%d/%d)", r.StageID, r.Count, r.Limit)
	case ReasonRankCollision:
		return fmt.Sprintf("flowboard: rank collision in stage %q, renormalize and retry", r.StageID)
	case ReasonDuplicateItem:
		return fmt.Sprintf("flowboard: item %q is already on the board", r.ItemID)
	default:
		return fmt.Sprintf("flowboard: transition rejected (%s)", r.Reason)
	}
}

// NewRejection builds a Rejection for the given reason and item/stage pair.
func NewRejection(reason RejectReason, itemID, stageID string) *Rejection {
	return &Rejection{Reason: reason, ItemID: itemID, StageID: stageID}
}

// ReasonOf returns the reject reason carried by err, if any.
func ReasonOf(err error) (RejectReason, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

// IsRejection reports whether err is a Rejection with the given reason.
func IsRejection(err error, reason RejectReason) bool {
	got, ok := ReasonOf(err)
	return ok && got == reason
}
