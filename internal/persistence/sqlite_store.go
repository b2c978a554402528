package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/petrijr/flowboard/pkg/api"
)

// SQLiteBoardStore is a BoardStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteBoardStore struct {
	db *sql.DB
}

// Ensure SQLiteBoardStore implements BoardStore.
var _ BoardStore = (*SQLiteBoardStore)(nil)

// NewSQLiteBoardStore initializes the required schema in the given database
// and returns a new SQLiteBoardStore.
func NewSQLiteBoardStore(db *sql.DB) (*SQLiteBoardStore, error) {
	s := &SQLiteBoardStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteBoardStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS board_items (
			id TEXT PRIMARY KEY,
			stage_id TEXT NOT NULL,
			rank REAL NOT NULL,
			entered_stage_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			blocked INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS board_version (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			version INTEGER NOT NULL
		);
		INSERT INTO board_version (id, version)
			SELECT 1, 0
			WHERE NOT EXISTS (SELECT 1 FROM board_version WHERE id = 1);`,
	)
	return err
}

func (s *SQLiteBoardStore) LoadBoard(ctx context.Context) ([]api.WorkItem, int64, error) {
	version, err := s.currentVersion(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, stage_id, rank, entered_stage_at, created_at, blocked
		FROM board_items`,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []api.WorkItem
	for rows.Next() {
		var it api.WorkItem
		var entered, created int64
		var blocked int

		if err := rows.Scan(&it.ID, &it.StageID, &it.Rank, &entered, &created, &blocked); err != nil {
			return nil, 0, err
		}
		it.EnteredStageAt = time.Unix(0, entered)
		it.CreatedAt = time.Unix(0, created)
		it.Blocked = blocked != 0

		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, version, nil
}

func (s *SQLiteBoardStore) currentVersion(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `SELECT version FROM board_version WHERE id = 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

func (s *SQLiteBoardStore) SaveItem(ctx context.Context, item api.WorkItem, expectedVersion int64) (int64, error) {
	return s.withVersionedTx(ctx, expectedVersion, func(tx *sql.Tx) error {
		blocked := 0
		if item.Blocked {
			blocked = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO board_items (id, stage_id, rank, entered_stage_at, created_at, blocked)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				stage_id = excluded.stage_id,
				rank = excluded.rank,
				entered_stage_at = excluded.entered_stage_at,
				blocked = excluded.blocked`,
			item.ID,
			item.StageID,
			item.Rank,
			item.EnteredStageAt.UnixNano(),
			item.CreatedAt.UnixNano(),
			blocked,
		)
		return err
	})
}

func (s *SQLiteBoardStore) DeleteItem(ctx context.Context, itemID string, expectedVersion int64) (int64, error) {
	return s.withVersionedTx(ctx, expectedVersion, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM board_items WHERE id = ?`, itemID)
		return err
	})
}

// withVersionedTx runs fn inside a transaction that first compares the
// stored board version against expectedVersion and bumps it on success.
func (s *SQLiteBoardStore) withVersionedTx(ctx context.Context, expectedVersion int64, fn func(tx *sql.Tx) error) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var version int64
	if err := tx.QueryRowContext(ctx, `SELECT version FROM board_version WHERE id = 1`).Scan(&version); err != nil {
		return 0, err
	}
	if version != expectedVersion {
		return version, ErrVersionConflict
	}

	if err := fn(tx); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE board_version SET version = version + 1 WHERE id = 1`); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return version + 1, nil
}
