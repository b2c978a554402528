package flowboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/flowboard/internal/engine"
	"github.com/petrijr/flowboard/internal/persistence"
	"github.com/petrijr/flowboard/pkg/api"
)

// Session bundles an in-memory Engine with a BoardStore and keeps the two
// consistent: it loads the board snapshot at start, applies each intent
// through the engine, and commits every accepted transition back to the
// store under optimistic concurrency.
//
// When a commit loses the version race (another session wrote first), the
// Session discards its local snapshot, reloads the board from the store and
// replays the intent against the fresh state, up to MaxAttempts times. This
// is the retry-on-conflict discipline: intents are replayed, not blindly
// re-committed, so a replay can legitimately come back rejected (e.g. the
// target stage filled up in the meantime).
//
// Typical usage:
//
//	cfg, _ := flowboard.LoadConfig("board.yaml")
//	session, err := flowboard.NewMemorySession(ctx, cfg)
//	...
//	snap, err := session.MoveItem(ctx, "task-7", "review", flowboard.Last())
type Session struct {
	cfg      BoardConfig
	store    BoardStore
	events   EventStore
	observer Observer
	attempts int

	mu      sync.Mutex
	eng     Engine
	version int64
}

// SessionConfig describes optional Session wiring.
type SessionConfig struct {
	// Observer receives engine callbacks. Defaults to NoopObserver.
	Observer Observer

	// Events records accepted (and rejected) transitions. Defaults to a
	// store that discards everything.
	Events EventStore

	// MaxAttempts bounds how many times an intent is replayed after
	// version conflicts. Defaults to 3.
	MaxAttempts int
}

// NewSession loads the board from the store and returns a ready Session.
func NewSession(ctx context.Context, cfg BoardConfig, store BoardStore) (*Session, error) {
	return NewSessionWithConfig(ctx, cfg, store, SessionConfig{})
}

// NewSessionWithConfig is NewSession with explicit wiring.
func NewSessionWithConfig(ctx context.Context, cfg BoardConfig, store BoardStore, sc SessionConfig) (*Session, error) {
	if store == nil {
		return nil, errors.New("flowboard: session needs a board store")
	}

	obs := sc.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	events := sc.Events
	if events == nil {
		events = persistence.NoopEventStore{}
	}
	attempts := sc.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	s := &Session{
		cfg:      cfg,
		store:    store,
		events:   events,
		observer: obs,
		attempts: attempts,
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemorySession is a convenience constructor over NewMemoryStore. The
// store doubles as the session's event store.
func NewMemorySession(ctx context.Context, cfg BoardConfig) (*Session, error) {
	mem := NewMemoryStore()
	return NewSessionWithConfig(ctx, cfg, mem, SessionConfig{Events: mem})
}

// NewSQLiteSession is a convenience constructor that keeps work items and
// board history in the same SQLite database.
func NewSQLiteSession(ctx context.Context, cfg BoardConfig, db *sql.DB) (*Session, error) {
	store, err := NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	events, err := NewSQLiteEventStore(db)
	if err != nil {
		return nil, err
	}
	return NewSessionWithConfig(ctx, cfg, store, SessionConfig{Events: events})
}

// NewRedisSession is a convenience constructor over NewRedisStore.
func NewRedisSession(ctx context.Context, cfg BoardConfig, client *redis.Client, prefix string) (*Session, error) {
	return NewSession(ctx, cfg, NewRedisStore(client, prefix))
}

// reload discards the in-memory aggregate and rebuilds it from the store.
// Callers hold s.mu (or are constructing the session).
func (s *Session) reload(ctx context.Context) error {
	items, version, err := s.store.LoadBoard(ctx)
	if err != nil {
		return err
	}
	eng, err := engine.NewWithConfig(s.cfg, items, engine.Config{Observer: s.observer})
	if err != nil {
		return err
	}
	s.eng = eng
	s.version = version
	return nil
}

// Version returns the board version of the last successful load or commit.
func (s *Session) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot returns the current in-memory board aggregate.
func (s *Session) Snapshot() FlowSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Snapshot()
}

// AgingReport classifies every item at the given reference time.
func (s *Session) AgingReport(now time.Time) []AgingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.AgingReport(now)
}

// WipStatus derives the occupancy of one stage.
func (s *Session) WipStatus(stageID string) (WipStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.WipStatus(stageID)
}

// WipStatuses returns every stage's occupancy in pipeline order.
func (s *Session) WipStatuses() []WipStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.WipStatuses()
}

// History lists the board's recorded transition events.
func (s *Session) History(ctx context.Context) ([]BoardEvent, error) {
	return s.events.ListEvents(ctx, s.cfg.Name)
}

// MoveItem applies a move intent and commits it. On rejection the board is
// unchanged and the typed reason is returned alongside the current snapshot.
func (s *Session) MoveItem(ctx context.Context, itemID, targetStageID string, pos PositionHint) (FlowSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		snap      FlowSnapshot
		fromStage string
	)
	err := s.replay(ctx, func() (commitFn, error) {
		if prev, ok := s.eng.Snapshot().Item(itemID); ok {
			fromStage = prev.StageID
		}
		var moveErr error
		snap, moveErr = s.eng.MoveItem(itemID, targetStageID, pos)
		if moveErr != nil {
			s.recordRejection(ctx, itemID, targetStageID, moveErr)
			return nil, moveErr
		}
		item, _ := snap.Item(itemID)
		return func() (int64, error) {
			return s.store.SaveItem(ctx, item, s.version)
		}, nil
	}, func() {
		item, _ := snap.Item(itemID)
		s.appendEvent(ctx, api.BoardEvent{
			Board:     s.cfg.Name,
			ItemID:    itemID,
			Type:      api.EventItemMoved,
			FromStage: fromStage,
			ToStage:   item.StageID,
			Rank:      item.Rank,
		})
	})
	return snap, err
}

// AddItem places a new item on the board and commits it.
func (s *Session) AddItem(ctx context.Context, init WorkItemInit) (WorkItem, FlowSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		item WorkItem
		snap FlowSnapshot
	)
	err := s.replay(ctx, func() (commitFn, error) {
		var addErr error
		item, snap, addErr = s.eng.AddItem(init)
		if addErr != nil {
			s.recordRejection(ctx, init.ID, init.StageID, addErr)
			return nil, addErr
		}
		return func() (int64, error) {
			return s.store.SaveItem(ctx, item, s.version)
		}, nil
	}, func() {
		s.appendEvent(ctx, api.BoardEvent{
			Board:   s.cfg.Name,
			ItemID:  item.ID,
			Type:    api.EventItemAdded,
			ToStage: item.StageID,
			Rank:    item.Rank,
		})
	})
	return item, snap, err
}

// RemoveItem removes an item and commits the deletion. Removing an unknown
// id is a local no-op and never touches the store, so duplicate removal
// requests from retried client calls stay idempotent and cheap.
func (s *Session) RemoveItem(ctx context.Context, itemID string) (FlowSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		snap    FlowSnapshot
		removed bool
		stage   string
	)
	err := s.replay(ctx, func() (commitFn, error) {
		if prev, ok := s.eng.Snapshot().Item(itemID); ok {
			stage = prev.StageID
		}
		snap, removed = s.eng.RemoveItem(itemID)
		if !removed {
			return nil, nil
		}
		return func() (int64, error) {
			return s.store.DeleteItem(ctx, itemID, s.version)
		}, nil
	}, func() {
		s.appendEvent(ctx, api.BoardEvent{
			Board:     s.cfg.Name,
			ItemID:    itemID,
			Type:      api.EventItemRemoved,
			FromStage: stage,
		})
	})
	return snap, err
}

// RenormalizeStage reassigns the stage's ranks to evenly spaced integers and
// commits every re-ranked item. It is the remedy for ReasonRankCollision.
func (s *Session) RenormalizeStage(ctx context.Context, stageID string) (FlowSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap FlowSnapshot
	err := s.replay(ctx, func() (commitFn, error) {
		var renormErr error
		snap, renormErr = s.eng.RenormalizeStage(stageID)
		if renormErr != nil {
			s.recordRejection(ctx, "", stageID, renormErr)
			return nil, renormErr
		}
		items := snap.StageItems(stageID)
		return func() (int64, error) {
			version := s.version
			for _, item := range items {
				next, err := s.store.SaveItem(ctx, item, version)
				if err != nil {
					return version, err
				}
				version = next
			}
			return version, nil
		}, nil
	}, func() {
		s.appendEvent(ctx, api.BoardEvent{
			Board:   s.cfg.Name,
			Type:    api.EventStageRenormalized,
			ToStage: stageID,
			Detail:  fmt.Sprintf("%d items re-ranked", len(snap.StageItems(stageID))),
		})
	})
	return snap, err
}

// commitFn commits an accepted transition to the store and returns the new
// board version. A nil commitFn means there is nothing to persist.
type commitFn func() (int64, error)

// replay runs one intent: apply it through the engine, commit, and on a
// version conflict reload the board and try the intent again. Non-conflict
// commit errors also force a reload so the in-memory aggregate never drifts
// from the durable copy.
func (s *Session) replay(ctx context.Context, apply func() (commitFn, error), onCommitted func()) error {
	for attempt := 0; attempt < s.attempts; attempt++ {
		commit, err := apply()
		if err != nil {
			return err
		}
		if commit == nil {
			return nil
		}

		version, err := commit()
		if err == nil {
			s.version = version
			onCommitted()
			return nil
		}

		if reloadErr := s.reload(ctx); reloadErr != nil {
			return errors.Join(err, reloadErr)
		}
		if !errors.Is(err, persistence.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("flowboard: intent not committed after %d attempts: %w", s.attempts, persistence.ErrVersionConflict)
}

func (s *Session) appendEvent(ctx context.Context, ev BoardEvent) {
	ev.At = time.Now()
	// History is best-effort; a failed append must not undo a committed
	// transition.
	_ = s.events.AppendEvent(ctx, ev)
}

func (s *Session) recordRejection(ctx context.Context, itemID, stageID string, err error) {
	reason, ok := api.ReasonOf(err)
	if !ok {
		return
	}
	s.appendEvent(ctx, api.BoardEvent{
		Board:   s.cfg.Name,
		ItemID:  itemID,
		Type:    api.EventMoveRejected,
		ToStage: stageID,
		Detail:  string(reason),
	})
}
