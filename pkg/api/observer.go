package api

import (
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks from the flow engine for logging and metrics.
//
// Callbacks run synchronously inside the engine's writer section, so
// implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay board transitions.
type Observer interface {
	// OnItemAdded is called after AddItem accepts a new item.
	OnItemAdded(board string, item WorkItem)

	// OnItemMoved is called after MoveItem accepts a transition.
	// fromStage equals item.StageID for a pure reorder.
	OnItemMoved(board string, item WorkItem, fromStage string)

	// OnItemRemoved is called after RemoveItem drops an existing item.
	// It is not called for idempotent removals of unknown ids.
	OnItemRemoved(board string, item WorkItem)

	// OnMoveRejected is called when a mutating operation returns a
	// Rejection.
	OnMoveRejected(board string, rej *Rejection)

	// OnRanksRenormalized is called after RenormalizeStage reassigns a
	// stage's ranks. n is the number of items re-ranked.
	OnRanksRenormalized(board string, stageID string, n int)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnItemAdded(board string, item WorkItem)                 {}
func (NoopObserver) OnItemMoved(board string, item WorkItem, from string)    {}
func (NoopObserver) OnItemRemoved(board string, item WorkItem)               {}
func (NoopObserver) OnMoveRejected(board string, rej *Rejection)             {}
func (NoopObserver) OnRanksRenormalized(board string, stageID string, n int) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnItemAdded(board string, item WorkItem) {
	for _, o := range c.observers {
		o.OnItemAdded(board, item)
	}
}

func (c *CompositeObserver) OnItemMoved(board string, item WorkItem, from string) {
	for _, o := range c.observers {
		o.OnItemMoved(board, item, from)
	}
}

func (c *CompositeObserver) OnItemRemoved(board string, item WorkItem) {
	for _, o := range c.observers {
		o.OnItemRemoved(board, item)
	}
}

func (c *CompositeObserver) OnMoveRejected(board string, rej *Rejection) {
	for _, o := range c.observers {
		o.OnMoveRejected(board, rej)
	}
}

func (c *CompositeObserver) OnRanksRenormalized(board string, stageID string, n int) {
	for _, o := range c.observers {
		o.OnRanksRenormalized(board, stageID, n)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs board transition events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnItemAdded(board string, item WorkItem) {
	o.Logger.Info("item_added",
		slog.String("board", board),
		slog.String("item_id", item.ID),
		slog.String("stage", item.StageID),
		slog.Float64("rank", item.Rank),
	)
}

func (o *LoggingObserver) OnItemMoved(board string, item WorkItem, from string) {
	o.Logger.Info("item_moved",
		slog.String("board", board),
		slog.String("item_id", item.ID),
		slog.String("from_stage", from),
		slog.String("to_stage", item.StageID),
		slog.Float64("rank", item.Rank),
	)
}

func (o *LoggingObserver) OnItemRemoved(board string, item WorkItem) {
	o.Logger.Info("item_removed",
		slog.String("board", board),
		slog.String("item_id", item.ID),
		slog.String("stage", item.StageID),
	)
}

func (o *LoggingObserver) OnMoveRejected(board string, rej *Rejection) {
	o.Logger.Warn("move_rejected",
		slog.String("board", board),
		slog.String("item_id", rej.ItemID),
		slog.String("stage", rej.StageID),
		slog.String("reason", string(rej.Reason)),
	)
}

func (o *LoggingObserver) OnRanksRenormalized(board string, stageID string, n int) {
	o.Logger.Debug("ranks_renormalized",
		slog.String("board", board),
		slog.String("stage", stageID),
		slog.Int("items", n),
	)
}

// BasicMetrics collects simple counters over board transitions.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	itemsAdded      atomic.Int64
	itemsMoved      atomic.Int64
	itemsRemoved    atomic.Int64
	movesRejected   atomic.Int64
	renormalizes    atomic.Int64
	renormalizedLen atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	ItemsAdded    int64
	ItemsMoved    int64
	ItemsRemoved  int64
	MovesRejected int64

	Renormalizations    int64
	AvgRenormalizedSize float64
}

func (m *BasicMetrics) OnItemAdded(board string, item WorkItem) {
	m.itemsAdded.Add(1)
}

func (m *BasicMetrics) OnItemMoved(board string, item WorkItem, from string) {
	m.itemsMoved.Add(1)
}

func (m *BasicMetrics) OnItemRemoved(board string, item WorkItem) {
	m.itemsRemoved.Add(1)
}

func (m *BasicMetrics) OnMoveRejected(board string, rej *Rejection) {
	m.movesRejected.Add(1)
}

func (m *BasicMetrics) OnRanksRenormalized(board string, stageID string, n int) {
	m.renormalizes.Add(1)
	m.renormalizedLen.Add(int64(n))
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	renorms := m.renormalizes.Load()

	var avg float64
	if renorms > 0 {
		avg = float64(m.renormalizedLen.Load()) / float64(renorms)
	}

	return BasicMetricsSnapshot{
		ItemsAdded:          m.itemsAdded.Load(),
		ItemsMoved:          m.itemsMoved.Load(),
		ItemsRemoved:        m.itemsRemoved.Load(),
		MovesRejected:       m.movesRejected.Load(),
		Renormalizations:    renorms,
		AvgRenormalizedSize: avg,
	}
}

var _ Observer = (*BasicMetrics)(nil)
