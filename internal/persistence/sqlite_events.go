package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/petrijr/flowboard/pkg/api"
)

// SQLiteEventStore stores board transition events in SQLite.
type SQLiteEventStore struct {
	db *sql.DB
}

// Ensure SQLiteEventStore implements the interfaces.
var _ EventStore = (*SQLiteEventStore)(nil)

func NewSQLiteEventStore(db *sql.DB) (*SQLiteEventStore, error) {
	s := &SQLiteEventStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteEventStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS board_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board TEXT NOT NULL,
			item_id TEXT NOT NULL DEFAULT '',
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			from_stage TEXT NOT NULL DEFAULT '',
			to_stage TEXT NOT NULL DEFAULT '',
			rank REAL NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_board_events_board ON board_events(board, id);
	`)
	return err
}

func (s *SQLiteEventStore) AppendEvent(ctx context.Context, ev api.BoardEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO board_events (board, item_id, at, type, from_stage, to_stage, rank, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Board,
		ev.ItemID,
		at.UnixNano(),
		string(ev.Type),
		ev.FromStage,
		ev.ToStage,
		ev.Rank,
		ev.Detail,
	)
	return err
}

func (s *SQLiteEventStore) ListEvents(ctx context.Context, board string) ([]api.BoardEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT board, item_id, at, type, from_stage, to_stage, rank, detail
		FROM board_events
		WHERE board = ?
		ORDER BY id ASC`,
		board,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []api.BoardEvent
	for rows.Next() {
		var ev api.BoardEvent
		var at int64
		var typ string

		if err := rows.Scan(&ev.Board, &ev.ItemID, &at, &typ, &ev.FromStage, &ev.ToStage, &ev.Rank, &ev.Detail); err != nil {
			return nil, err
		}
		ev.At = time.Unix(0, at)
		ev.Type = api.EventType(typ)

		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
