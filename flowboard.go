package flowboard

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/flowboard/internal/engine"
	"github.com/petrijr/flowboard/internal/persistence"
	"github.com/petrijr/flowboard/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Engine               = api.Engine
	BoardConfig          = api.BoardConfig
	Stage                = api.Stage
	AgingPolicy          = api.AgingPolicy
	WorkItem             = api.WorkItem
	WorkItemInit         = api.WorkItemInit
	PositionHint         = api.PositionHint
	FlowSnapshot         = api.FlowSnapshot
	StageSnapshot        = api.StageSnapshot
	WipStatus            = api.WipStatus
	AgingEntry           = api.AgingEntry
	Freshness            = api.Freshness
	RejectReason         = api.RejectReason
	Rejection            = api.Rejection
	BoardEvent           = api.BoardEvent
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export position hint constructors.

var (
	First  = api.First
	Last   = api.Last
	Before = api.Before
	After  = api.After
	AtRank = api.AtRank
)

// Re-export freshness values and reject reasons for convenience.

const (
	Fresh = api.Fresh
	Aging = api.Aging

	ReasonItemNotFound     = api.ReasonItemNotFound
	ReasonUnknownStage     = api.ReasonUnknownStage
	ReasonWipLimitExceeded = api.ReasonWipLimitExceeded
	ReasonRankCollision    = api.ReasonRankCollision
	ReasonDuplicateItem    = api.ReasonDuplicateItem
)

// Rejection helpers.

var (
	ReasonOf    = api.ReasonOf
	IsRejection = api.IsRejection
)

// Engine constructors
// These wrap the internal/engine package so external callers
// never need to import internal packages.

// NewEngine returns an Engine over the given board configuration, seeded
// with the items loaded from the task storage collaborator. Pass nil for an
// empty board.
func NewEngine(cfg BoardConfig, seed []WorkItem) (Engine, error) {
	return engine.New(cfg, seed)
}

// NewEngineWithObserver returns an Engine that reports transitions to the
// given Observer.
func NewEngineWithObserver(cfg BoardConfig, seed []WorkItem, obs Observer) (Engine, error) {
	return engine.NewWithConfig(cfg, seed, engine.Config{Observer: obs})
}

// Store constructors
// A BoardStore is the durable side of a board: the engine stays pure and
// in-memory, and a Session commits accepted transitions through the store.

// BoardStore is the task storage collaborator interface. See Session for the
// commit discipline.
type BoardStore = persistence.BoardStore

// EventStore records append-only board history.
type EventStore = persistence.EventStore

// ErrVersionConflict is returned by store commits that lost an optimistic
// concurrency race; Session retries these automatically.
var ErrVersionConflict = persistence.ErrVersionConflict

// NewMemoryStore returns a non-durable BoardStore (also an EventStore),
// best for tests and local development.
func NewMemoryStore() *persistence.InMemoryStore {
	return persistence.NewInMemoryStore()
}

// NewSQLiteStore returns a BoardStore that persists work items in a SQLite
// database. The caller is responsible for importing a SQLite driver, e.g.
//
//	import _ "modernc.org/sqlite"
func NewSQLiteStore(db *sql.DB) (BoardStore, error) {
	return persistence.NewSQLiteBoardStore(db)
}

// NewSQLiteEventStore returns an EventStore that persists board history in a
// SQLite database (it can share the *sql.DB with NewSQLiteStore).
func NewSQLiteEventStore(db *sql.DB) (EventStore, error) {
	return persistence.NewSQLiteEventStore(db)
}

// NewRedisStore returns a BoardStore that persists work items in Redis.
// prefix is optional but recommended (e.g. "flowboard:").
func NewRedisStore(client *redis.Client, prefix string) BoardStore {
	return persistence.NewRedisBoardStore(client, prefix)
}
