// Package flowboard provides a lightweight, embeddable Kanban flow engine
// for Go.
//
// Flowboard models a bounded work-item board: a finite set of ordered
// stages, a per-stage concurrent-work-in-progress (WIP) ceiling, item
// re-sequencing within and across stages, and staleness ("aging") detection.
// It runs fully in Go, supports multiple persistence backends, and
// integrates cleanly into existing codebases.
//
// # Core Concepts
//
// The flowboard programming model is intentionally small and idiomatic:
//
//  1. Engine
//  2. BoardBuilder
//  3. PositionHint
//  4. BoardStore
//  5. Session
//
// # Engine
//
// The Engine holds one board's aggregate in memory and exposes the transition
// API: move an item, add an item, remove an item, renormalize a stage's
// ranks, and read snapshots, WIP statuses and aging reports.
//
// Every mutation is atomic and validated first: a move that would push a
// stage past its finite WIP limit, reference a missing item or stage, or
// exhaust rank precision is rejected with a typed reason, and the board is
// left untouched. The engine is a single logical writer: transitions execute
// to completion one at a time, and the engine itself never performs I/O and
// never logs.
//
// Positions are expressed as hints (first, last, before/after a sibling, or
// an explicit rank) and resolved to final float64 ranks by midpoint
// allocation. When midpoints run out of precision the move is rejected with
// ReasonRankCollision and RenormalizeStage reassigns the stage's ranks to
// evenly spaced integers, preserving order, so the move can be retried.
//
// # BoardBuilder
//
// BoardBuilder provides the ergonomic, declarative API used to describe
// boards:
//
//	cfg := flowboard.NewBoard("Delivery Flow").
//	    Stage("ready").
//	    StageWithLimit("in_progress", 3).
//	    StageWithLimit("review", 3).
//	    Stage("released").
//	    AgingThreshold(72 * time.Hour).
//	    ExcludeFromAging("ready").
//	    Config()
//
// The same configuration can be loaded from a YAML document with LoadConfig,
// which is how a hosting application typically supplies it.
//
// # BoardStore
//
// A BoardStore owns the durable copy of the board's work items. Stores can
// be backed by different storage systems:
//
//   - In-memory (non-durable, best for tests)
//   - SQLite (embedded durability)
//   - Redis
//
// Every store commit carries an expected board version and fails with
// ErrVersionConflict when another writer got there first.
//
// # Session
//
// Session bundles an Engine with a BoardStore: it loads the board at start,
// applies intents through the engine, commits accepted transitions under
// optimistic concurrency, and on a version conflict reloads the board and
// replays the intent. It also records append-only BoardEvent history through
// an EventStore.
//
// # Observability
//
// The engine reports transitions to an Observer. NewLoggingObserver renders
// them with log/slog, BasicMetrics keeps counters, and NewCompositeObserver
// combines observers. The default observer does nothing.
//
// For examples, see the /examples directory or the project README.
package flowboard
