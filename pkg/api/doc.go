// Package api contains the core building blocks used by the flowboard
// engine. It provides the low-level types for describing boards, work items,
// positions and transitions, and for observing engine behavior.
//
// Most users interact with the higher-level flowboard package, which
// re-exports selected types and helpers from this package. The api package is
// intended for advanced use cases, custom integrations, or contributors
// extending the engine itself.
//
// # Concepts
//
// The api package centers around a small set of concepts:
//
//   - Board configuration (stages, WIP limits, aging policy)
//   - Work items and their intra-stage ranks
//   - Position hints and transition rejections
//   - Observability
//
// # Board Configuration
//
// A BoardConfig describes one board: the ordered set of Stages (each with an
// optional WIP ceiling) and the AgingPolicy used to classify stale items.
// Configurations are immutable once a session starts; the engine treats them
// as fixed for its lifetime.
//
// # Work Items and Ranks
//
// A WorkItem belongs to exactly one stage and carries a float64 Rank giving
// its position within that stage. Callers rarely compute ranks themselves:
// moves are expressed through PositionHint (first, last, before/after a
// sibling, or an explicit rank) and the engine resolves the hint to a final
// rank via midpoint allocation.
//
// # Rejections
//
// Every mutating engine operation returns either an updated snapshot or a
// typed *Rejection explaining exactly why the transition was refused. The
// reasons are specific enough to drive a clear user-facing message; the
// engine never logs them itself.
//
// # Observability
//
// The Observer interface receives transition callbacks. NoopObserver,
// CompositeObserver, LoggingObserver (log/slog) and BasicMetrics cover the
// common cases.
package api
