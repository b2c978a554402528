package persistence

import (
	"context"
	"errors"

	"github.com/petrijr/flowboard/pkg/api"
)

var (
	// ErrVersionConflict is returned when a commit's expected board
	// version no longer matches the stored one: another writer got there
	// first. The caller should reload the snapshot and replay the intent.
	ErrVersionConflict = errors.New("board version conflict")

	// ErrItemNotFound is returned when a store lookup misses.
	ErrItemNotFound = errors.New("item not found")
)

// BoardStore is the task storage collaborator: it owns the durable copy of
// the board's work items. The engine never performs I/O itself; the caller
// (typically a Session) commits each accepted transition through this
// interface.
//
// Every mutation compares the caller's expected board version against the
// stored one and fails with ErrVersionConflict on mismatch, implementing the
// optimistic-concurrency discipline for cross-session edits. Versions start
// at 0 for an empty board and increase by 1 per successful mutation.
type BoardStore interface {
	// LoadBoard returns every persisted item (in no particular order) and
	// the current board version.
	LoadBoard(ctx context.Context) ([]api.WorkItem, int64, error)

	// SaveItem upserts the durable copy of one item, returning the new
	// board version.
	SaveItem(ctx context.Context, item api.WorkItem, expectedVersion int64) (int64, error)

	// DeleteItem removes the durable copy. Deleting an unknown id still
	// bumps the version and is not an error, mirroring the engine's
	// idempotent RemoveItem.
	DeleteItem(ctx context.Context, itemID string, expectedVersion int64) (int64, error)
}

// EventStore is an append-only history store for board transition events.
type EventStore interface {
	AppendEvent(ctx context.Context, ev api.BoardEvent) error
	ListEvents(ctx context.Context, board string) ([]api.BoardEvent, error)
}

// NoopEventStore discards all events.
type NoopEventStore struct{}

func (NoopEventStore) AppendEvent(ctx context.Context, ev api.BoardEvent) error { return nil }
func (NoopEventStore) ListEvents(ctx context.Context, board string) ([]api.BoardEvent, error) {
	return nil, nil
}
