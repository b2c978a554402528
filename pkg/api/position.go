package api

// PositionKind discriminates the ways a caller can express a target position.
type PositionKind int

const (
	// PositionLast appends after the last existing rank. Zero value so an
	// empty PositionHint means "end of the stage".
	PositionLast PositionKind = iota

	// PositionFirst inserts before the first existing rank.
	PositionFirst

	// PositionBefore inserts immediately before a sibling item.
	PositionBefore

	// PositionAfter inserts immediately after a sibling item.
	PositionAfter

	// PositionRank places the item at an explicit numeric rank.
	PositionRank
)

// PositionHint tells the validator where in the target stage an item should
// land. The hint is resolved to a final numeric rank strictly between its two
// neighbors using midpoint allocation; if precision is exhausted the move is
// rejected with ReasonRankCollision and the caller should renormalize the
// stage and retry.
type PositionHint struct {
	Kind PositionKind

	// SiblingID is consulted for PositionBefore / PositionAfter. The
	// sibling must already be in the target stage.
	SiblingID string

	// Rank is consulted for PositionRank.
	Rank float64
}

// Last places the item at the end of the target stage.
func Last() PositionHint {
	return PositionHint{Kind: PositionLast}
}

// First places the item at the front of the target stage.
func First() PositionHint {
	return PositionHint{Kind: PositionFirst}
}

// Before places the item immediately before the given sibling.
func Before(siblingID string) PositionHint {
	return PositionHint{Kind: PositionBefore, SiblingID: siblingID}
}

// After places the item immediately after the given sibling.
func After(siblingID string) PositionHint {
	return PositionHint{Kind: PositionAfter, SiblingID: siblingID}
}

// AtRank places the item at an explicit numeric rank.
func AtRank(rank float64) PositionHint {
	return PositionHint{Kind: PositionRank, Rank: rank}
}
