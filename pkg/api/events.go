package api

import "time"

// EventType identifies a board history event.
type EventType string

const (
	EventItemAdded   EventType = "item.added"
	EventItemMoved   EventType = "item.moved"
	EventItemRemoved EventType = "item.removed"

	EventMoveRejected      EventType = "move.rejected"
	EventStageRenormalized EventType = "stage.renormalized"
)

// BoardEvent is a minimal append-only history record for audit/debugging.
// It is intentionally small and stable; richer history can be layered later.
type BoardEvent struct {
	Board  string
	ItemID string
	At     time.Time
	Type   EventType

	// Stage movement context. FromStage is empty for item.added.
	FromStage string
	ToStage   string
	Rank      float64

	// Small, human-oriented details (e.g. the reject reason).
	// Keep this low-volume: do NOT dump large payloads here.
	Detail string
}
