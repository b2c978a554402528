package board

import (
	"fmt"
	"sort"

	"github.com/petrijr/flowboard/pkg/api"
)

// State is the in-memory board aggregate: every work item, grouped by stage
// and ordered by rank ascending (ties broken by id). It is the only shared
// mutable resource in the engine and is mutated exclusively through the
// engine's methods, which is what keeps the invariants enforceable:
//
//  1. every item appears in exactly one stage's sequence
//  2. within a stage the sequence is strictly ordered by (rank, id)
//  3. finite WIP limits hold as a post-condition of every accepted
//     transition (out-of-band over-limit seeds are tolerated for reads)
//
// State itself is not goroutine-safe; the engine serializes access.
type State struct {
	board    string
	registry *StageRegistry

	items   map[string]api.WorkItem
	byStage map[string][]string // ordered item ids per stage
}

// NewState builds a State over the given registry, seeded with the items
// loaded from the task storage collaborator. Seed items may exceed a stage's
// WIP limit (out-of-band data entry is tolerated), but an item referencing an
// unconfigured stage is a mapping-layer bug and fails construction.
func NewState(board string, registry *StageRegistry, seed []api.WorkItem) (*State, error) {
	s := &State{
		board:    board,
		registry: registry,
		items:    make(map[string]api.WorkItem, len(seed)),
		byStage:  make(map[string][]string, len(registry.ordered)),
	}
	for _, st := range registry.ordered {
		s.byStage[st.ID] = nil
	}

	for _, it := range seed {
		if it.ID == "" {
			return nil, fmt.Errorf("flowboard: seed item with empty id")
		}
		if _, ok := registry.Stage(it.StageID); !ok {
			return nil, fmt.Errorf("flowboard: seed item %q references unknown stage %q", it.ID, it.StageID)
		}
		if _, dup := s.items[it.ID]; dup {
			return nil, fmt.Errorf("flowboard: duplicate seed item %q", it.ID)
		}
		s.items[it.ID] = it
		s.byStage[it.StageID] = append(s.byStage[it.StageID], it.ID)
	}

	for stageID := range s.byStage {
		s.sortStage(stageID)
	}
	return s, nil
}

func (s *State) sortStage(stageID string) {
	ids := s.byStage[stageID]
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := s.items[ids[i]], s.items[ids[j]]
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.ID < b.ID
	})
}

// Board returns the board name.
func (s *State) Board() string { return s.board }

// Registry returns the stage registry backing this state.
func (s *State) Registry() *StageRegistry { return s.registry }

// Item returns the item with the given id.
func (s *State) Item(id string) (api.WorkItem, bool) {
	it, ok := s.items[id]
	return it, ok
}

// CountIn returns the number of items currently in the stage.
func (s *State) CountIn(stageID string) int {
	return len(s.byStage[stageID])
}

// Len returns the total number of items on the board.
func (s *State) Len() int { return len(s.items) }

// ItemsIn returns the stage's items in rank order.
func (s *State) ItemsIn(stageID string) []api.WorkItem {
	ids := s.byStage[stageID]
	out := make([]api.WorkItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id])
	}
	return out
}

// Put inserts or repositions an item. The caller (the engine) has already
// validated the transition and resolved the final rank, so Put cannot fail:
// it removes any previous occurrence and splices the item into its stage
// sequence at rank order.
func (s *State) Put(item api.WorkItem) {
	if prev, ok := s.items[item.ID]; ok {
		s.dropFromStage(prev.StageID, item.ID)
	}
	s.items[item.ID] = item

	ids := s.byStage[item.StageID]
	pos := sort.Search(len(ids), func(i int) bool {
		other := s.items[ids[i]]
		if other.Rank != item.Rank {
			return other.Rank > item.Rank
		}
		return other.ID > item.ID
	})
	ids = append(ids, "")
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = item.ID
	s.byStage[item.StageID] = ids
}

// Remove drops the item from whichever stage holds it. Removing an unknown
// id is a no-op so retried client calls stay idempotent.
func (s *State) Remove(id string) (api.WorkItem, bool) {
	it, ok := s.items[id]
	if !ok {
		return api.WorkItem{}, false
	}
	delete(s.items, id)
	s.dropFromStage(it.StageID, id)
	return it, true
}

func (s *State) dropFromStage(stageID, id string) {
	ids := s.byStage[stageID]
	for i, candidate := range ids {
		if candidate == id {
			s.byStage[stageID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Renormalize reassigns the stage's ranks to evenly spaced integers,
// preserving the existing order. It returns the number of items re-ranked.
func (s *State) Renormalize(stageID string) int {
	ids := s.byStage[stageID]
	ranks := evenRanks(len(ids))
	for i, id := range ids {
		it := s.items[id]
		it.Rank = ranks[i]
		s.items[id] = it
	}
	return len(ids)
}

// Snapshot returns an immutable copy of the aggregate in pipeline order.
func (s *State) Snapshot() api.FlowSnapshot {
	snap := api.FlowSnapshot{
		Board:  s.board,
		Stages: make([]api.StageSnapshot, 0, len(s.registry.ordered)),
	}
	for _, st := range s.registry.ordered {
		snap.Stages = append(snap.Stages, api.StageSnapshot{
			Stage: st,
			Items: s.ItemsIn(st.ID),
		})
	}
	return snap
}

// WipStatus derives the occupancy of one stage from current counts.
func (s *State) WipStatus(stageID string) (api.WipStatus, error) {
	st, ok := s.registry.Stage(stageID)
	if !ok {
		return api.WipStatus{}, api.NewRejection(api.ReasonUnknownStage, "", stageID)
	}
	status := api.WipStatus{
		StageID: st.ID,
		Count:   s.CountIn(st.ID),
	}
	if !st.Unbounded() {
		status.Limit = st.WipLimit
		status.AtLimit = status.Count == st.WipLimit
		status.Exceeded = status.Count > st.WipLimit
	}
	return status, nil
}
