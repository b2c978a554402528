package board

import (
	"errors"
	"fmt"
	"sort"

	"github.com/petrijr/flowboard/pkg/api"
)

// StageRegistry is the static description of a board's pipeline: the ordered
// stages and each stage's WIP ceiling. It has no mutation surface;
// configuration is validated at construction and immutable afterwards.
type StageRegistry struct {
	ordered []api.Stage
	byID    map[string]api.Stage
}

// NewStageRegistry validates cfg's stages and builds a registry. Stages are
// kept in DisplayOrder regardless of the order they were supplied in.
func NewStageRegistry(stages []api.Stage) (*StageRegistry, error) {
	if len(stages) == 0 {
		return nil, errors.New("flowboard: board needs at least one stage")
	}

	ordered := make([]api.Stage, len(stages))
	copy(ordered, stages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DisplayOrder < ordered[j].DisplayOrder
	})

	byID := make(map[string]api.Stage, len(ordered))
	seenOrder := make(map[int]string, len(ordered))
	for _, s := range ordered {
		if s.ID == "" {
			return nil, errors.New("flowboard: stage id must not be empty")
		}
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("flowboard: duplicate stage id %q", s.ID)
		}
		if other, dup := seenOrder[s.DisplayOrder]; dup {
			return nil, fmt.Errorf("flowboard: stages %q and %q share display order %d", other, s.ID, s.DisplayOrder)
		}
		byID[s.ID] = s
		seenOrder[s.DisplayOrder] = s.ID
	}

	return &StageRegistry{ordered: ordered, byID: byID}, nil
}

// Stages returns the full pipeline in display order. The returned slice is a
// copy; callers may not mutate registry state through it.
func (r *StageRegistry) Stages() []api.Stage {
	out := make([]api.Stage, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Stage looks up a stage by id.
func (r *StageRegistry) Stage(stageID string) (api.Stage, bool) {
	s, ok := r.byID[stageID]
	return s, ok
}

// WipLimitOf returns the stage's WIP ceiling (0 = unbounded). It rejects
// unconfigured stage ids with ReasonUnknownStage.
func (r *StageRegistry) WipLimitOf(stageID string) (int, error) {
	s, ok := r.byID[stageID]
	if !ok {
		return 0, api.NewRejection(api.ReasonUnknownStage, "", stageID)
	}
	if s.Unbounded() {
		return 0, nil
	}
	return s.WipLimit, nil
}
