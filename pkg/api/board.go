package api

import "time"

// Stage is one named step of the delivery pipeline (e.g. "ready",
// "in_progress"). Stages are configured once per board and never mutate at
// runtime.
type Stage struct {
	// ID is the stable stage identifier, e.g. "ready".
	ID string

	// DisplayOrder defines the pipeline sequence. Values are unique per
	// board and totally order the stages left to right.
	DisplayOrder int

	// WipLimit is the maximum number of items permitted concurrently in
	// this stage. Zero or negative means unbounded.
	WipLimit int
}

// Unbounded reports whether the stage has no WIP ceiling.
func (s Stage) Unbounded() bool {
	return s.WipLimit <= 0
}

// BoardConfig describes a board: its ordered stages and its aging policy.
// It is supplied at construction time (from the board configuration
// collaborator) and treated as immutable for the lifetime of a session.
type BoardConfig struct {
	// Name identifies the board, e.g. "Delivery Flow".
	Name string

	// Stages in pipeline order. Must be non-empty with unique IDs.
	Stages []Stage

	// Aging controls staleness classification.
	Aging AgingPolicy
}

// AgingPolicy configures the staleness classifier.
type AgingPolicy struct {
	// Threshold is the maximum time an item may sit in a non-excluded
	// stage before it is classified Aging. Zero disables aging entirely.
	Threshold time.Duration

	// ExcludedStages lists stage IDs where items may legitimately wait
	// (by convention the initial backlog-equivalent stage).
	ExcludedStages []string
}

// Excludes reports whether the given stage is exempt from aging.
func (p AgingPolicy) Excludes(stageID string) bool {
	for _, id := range p.ExcludedStages {
		if id == stageID {
			return true
		}
	}
	return false
}

// WorkItem is one unit of work flowing through the board.
//
// The engine exclusively owns the in-memory copy for the lifetime of a board
// session; the task storage collaborator owns the durable copy. StageID, Rank
// and EnteredStageAt change only through the engine's transition API.
type WorkItem struct {
	// ID is stable and externally assigned (any opaque string).
	ID string

	// StageID is the current stage.
	StageID string

	// Rank is the sort key giving total order within the stage.
	// Ties are broken by ID.
	Rank float64

	// EnteredStageAt is the time of the most recent stage transition.
	// Pure reorders within a stage never touch it.
	EnteredStageAt time.Time

	// CreatedAt is when the item was first placed on the board.
	CreatedAt time.Time

	// Blocked is a display-only flag. Validation never consults it.
	Blocked bool
}

// WorkItemInit describes a brand-new item for Engine.AddItem.
type WorkItemInit struct {
	// ID is optional; the engine assigns a UUID when empty.
	ID string

	// StageID is the stage the item enters. Subject to the same WIP check
	// as an inbound move.
	StageID string

	// Position determines where in the stage the item lands.
	// The zero value appends at the end.
	Position PositionHint

	Blocked bool
}

// Freshness is the aging classification of a work item.
type Freshness string

const (
	Fresh Freshness = "FRESH"
	Aging Freshness = "AGING"
)

// AgingEntry pairs an item with its classification in an aging report.
type AgingEntry struct {
	Item      WorkItem
	Freshness Freshness

	// InStage is how long the item has been in its current stage at the
	// report's reference time.
	InStage time.Duration
}

// WipStatus describes a stage's current occupancy.
type WipStatus struct {
	StageID string
	Count   int

	// Limit is the configured ceiling; 0 means unbounded.
	Limit int

	// AtLimit is true when the limit is finite and Count == Limit.
	AtLimit bool

	// Exceeded is true when the limit is finite and Count > Limit.
	// Over-limit states arise only from out-of-band data entry; they are
	// tolerated for reads but block further inbound moves.
	Exceeded bool
}

// FlowSnapshot is an immutable copy of the board aggregate: every stage in
// pipeline order with its items ordered by rank ascending. Mutating a
// snapshot never affects engine state.
type FlowSnapshot struct {
	Board  string
	Stages []StageSnapshot
}

// StageSnapshot is one stage's slice of a FlowSnapshot.
type StageSnapshot struct {
	Stage Stage
	Items []WorkItem
}

// Item returns the item with the given id, if present anywhere on the board.
func (s FlowSnapshot) Item(id string) (WorkItem, bool) {
	for _, st := range s.Stages {
		for _, it := range st.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return WorkItem{}, false
}

// StageItems returns the ordered items of one stage, or nil if the stage is
// not part of the board.
func (s FlowSnapshot) StageItems(stageID string) []WorkItem {
	for _, st := range s.Stages {
		if st.Stage.ID == stageID {
			return st.Items
		}
	}
	return nil
}

// Len returns the total number of items on the board.
func (s FlowSnapshot) Len() int {
	n := 0
	for _, st := range s.Stages {
		n += len(st.Items)
	}
	return n
}
