package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/petrijr/flowboard/pkg/api"
)

func newTestSQLiteEventStore(t *testing.T) *SQLiteEventStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	store, err := NewSQLiteEventStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteEventStore failed: %v", err)
	}
	return store
}

func TestSQLiteEventStore_AppendList(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteEventStore(t)

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	evs := []api.BoardEvent{
		{Board: "delivery", ItemID: "a", At: at, Type: api.EventItemAdded, ToStage: "ready", Rank: 1000},
		{Board: "delivery", ItemID: "a", At: at.Add(time.Minute), Type: api.EventItemMoved, FromStage: "ready", ToStage: "review", Rank: 1000},
		{Board: "delivery", ItemID: "a", At: at.Add(2 * time.Minute), Type: api.EventMoveRejected, ToStage: "in_progress", Detail: "WIP_LIMIT_EXCEEDED"},
		{Board: "other", At: at, Type: api.EventStageRenormalized, ToStage: "ready"},
	}
	for _, ev := range evs {
		if err := store.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	got, err := store.ListEvents(ctx, "delivery")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events for delivery, got %d", len(got))
	}

	first := got[0]
	if first.Type != api.EventItemAdded || first.ItemID != "a" || first.ToStage != "ready" {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if !first.At.Equal(at) {
		t.Fatalf("expected timestamp %v, got %v", at, first.At)
	}

	if got[2].Detail != "WIP_LIMIT_EXCEEDED" {
		t.Fatalf("expected rejection detail, got %q", got[2].Detail)
	}
}

func TestSQLiteEventStore_ZeroTimeGetsStamped(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteEventStore(t)

	before := time.Now()
	if err := store.AppendEvent(ctx, api.BoardEvent{Board: "delivery", Type: api.EventItemAdded}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	got, err := store.ListEvents(ctx, "delivery")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].At.Before(before.Add(-time.Second)) {
		t.Fatalf("expected append to stamp the event, got %v", got[0].At)
	}
}
