package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/flowboard/internal/board"
	"github.com/petrijr/flowboard/pkg/api"
)

// engineImpl is a simple, synchronous, in-process engine implementation.
//
// A single mutex serializes mutations, making the engine one logical writer:
// every transition runs validation and the state mutation as one unit with
// no suspension point in between, so rejected transitions leave the state
// untouched and accepted ones can never observe a half-applied move.
type engineImpl struct {
	mu     sync.Mutex
	state  *board.State
	policy api.AgingPolicy

	observer api.Observer
	clock    func() time.Time
}

// Config describes how to construct an engineImpl.
// Only used inside this package; external callers use the helper functions.
type Config struct {
	Observer api.Observer

	// Clock overrides time.Now, for tests that need a fixed transition
	// time.
	Clock func() time.Time
}

// New builds an engine over the given board configuration, seeded with the
// items loaded from the task storage collaborator.
func New(cfg api.BoardConfig, seed []api.WorkItem) (api.Engine, error) {
	return NewWithConfig(cfg, seed, Config{})
}

// NewWithConfig builds an engine with explicit wiring.
func NewWithConfig(cfg api.BoardConfig, seed []api.WorkItem, ec Config) (api.Engine, error) {
	registry, err := board.NewStageRegistry(cfg.Stages)
	if err != nil {
		return nil, err
	}
	state, err := board.NewState(cfg.Name, registry, seed)
	if err != nil {
		return nil, err
	}

	obs := ec.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	clock := ec.Clock
	if clock == nil {
		clock = time.Now
	}

	return &engineImpl{
		state:    state,
		policy:   cfg.Aging,
		observer: obs,
		clock:    clock,
	}, nil
}

func (e *engineImpl) Snapshot() api.FlowSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state.Snapshot()
}

func (e *engineImpl) MoveItem(itemID, targetStageID string, pos api.PositionHint) (api.FlowSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rank, err := board.Validate(e.state, itemID, targetStageID, pos)
	if err != nil {
		e.notifyRejection(err)
		return e.state.Snapshot(), err
	}

	item, _ := e.state.Item(itemID)
	fromStage := item.StageID

	item.Rank = rank
	if targetStageID != fromStage {
		item.StageID = targetStageID
		// A stage change resets the aging clock; a pure reorder keeps it.
		item.EnteredStageAt = e.clock()
	}
	e.state.Put(item)

	e.observer.OnItemMoved(e.state.Board(), item, fromStage)
	return e.state.Snapshot(), nil
}

func (e *engineImpl) AddItem(init api.WorkItemInit) (api.WorkItem, api.FlowSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rank, err := board.ValidateAdd(e.state, init)
	if err != nil {
		e.notifyRejection(err)
		return api.WorkItem{}, e.state.Snapshot(), err
	}

	id := init.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := e.clock()
	item := api.WorkItem{
		ID:             id,
		StageID:        init.StageID,
		Rank:           rank,
		EnteredStageAt: now,
		CreatedAt:      now,
		Blocked:        init.Blocked,
	}
	e.state.Put(item)

	e.observer.OnItemAdded(e.state.Board(), item)
	return item, e.state.Snapshot(), nil
}

func (e *engineImpl) RemoveItem(itemID string) (api.FlowSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, removed := e.state.Remove(itemID)
	if removed {
		e.observer.OnItemRemoved(e.state.Board(), item)
	}
	return e.state.Snapshot(), removed
}

func (e *engineImpl) RenormalizeStage(stageID string) (api.FlowSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.state.Registry().Stage(stageID); !ok {
		err := api.NewRejection(api.ReasonUnknownStage, "", stageID)
		e.notifyRejection(err)
		return e.state.Snapshot(), err
	}

	n := e.state.Renormalize(stageID)
	e.observer.OnRanksRenormalized(e.state.Board(), stageID, n)
	return e.state.Snapshot(), nil
}

func (e *engineImpl) AgingReport(now time.Time) []api.AgingEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	var report []api.AgingEntry
	for _, st := range e.state.Registry().Stages() {
		for _, item := range e.state.ItemsIn(st.ID) {
			report = append(report, api.AgingEntry{
				Item:      item,
				Freshness: board.Classify(item, now, e.policy),
				InStage:   now.Sub(item.EnteredStageAt),
			})
		}
	}
	return report
}

func (e *engineImpl) WipStatus(stageID string) (api.WipStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state.WipStatus(stageID)
}

func (e *engineImpl) WipStatuses() []api.WipStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	stages := e.state.Registry().Stages()
	out := make([]api.WipStatus, 0, len(stages))
	for _, st := range stages {
		status, err := e.state.WipStatus(st.ID)
		if err != nil {
			// Registry stages are configured by definition.
			continue
		}
		out = append(out, status)
	}
	return out
}

func (e *engineImpl) notifyRejection(err error) {
	if rej, ok := asRejection(err); ok {
		e.observer.OnMoveRejected(e.state.Board(), rej)
	}
}

func asRejection(err error) (*api.Rejection, bool) {
	rej, ok := err.(*api.Rejection)
	return rej, ok
}
