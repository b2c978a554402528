package flowboard

import (
	"fmt"
	"time"

	"github.com/petrijr/flowboard/pkg/api"
)

// BoardBuilder provides a fluent API for describing boards:
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
//	eng, err := flowboard.NewEngine(cfg, nil)
type BoardBuilder struct {
	cfg api.BoardConfig
}

// NewBoard creates a new board builder with the given name. Stages are
// assigned display orders in the sequence they are added.
func NewBoard(name string) *BoardBuilder {
	return &BoardBuilder{
		cfg: api.BoardConfig{
			Name:   name,
			Stages: make([]api.Stage, 0),
		},
	}
}

// Name returns the board name.
func (b *BoardBuilder) Name() string {
	return b.cfg.Name
}

// Config returns the built BoardConfig.
func (b *BoardBuilder) Config() BoardConfig {
	return b.cfg
}

// Stage appends an unbounded stage to the pipeline.
func (b *BoardBuilder) Stage(id string) *BoardBuilder {
	return b.addStage(id, 0)
}

// StageWithLimit appends a stage with a finite WIP ceiling.
func (b *BoardBuilder) StageWithLimit(id string, wipLimit int) *BoardBuilder {
	if wipLimit <= 0 {
		panic(fmt.Sprintf("flowboard: stage %q needs a positive WIP limit, use Stage for unbounded", id))
	}
	return b.addStage(id, wipLimit)
}

func (b *BoardBuilder) addStage(id string, wipLimit int) *BoardBuilder {
	if id == "" {
		panic("flowboard: stage id must not be empty")
	}
	b.cfg.Stages = append(b.cfg.Stages, api.Stage{
		ID:           id,
		DisplayOrder: len(b.cfg.Stages),
		WipLimit:     wipLimit,
	})
	return b
}

// AgingThreshold sets how long an item may sit in a non-excluded stage
// before it is classified Aging. Zero disables aging.
func (b *BoardBuilder) AgingThreshold(threshold time.Duration) *BoardBuilder {
	b.cfg.Aging.Threshold = threshold
	return b
}

// ExcludeFromAging exempts stages (typically the backlog-equivalent one)
// from aging classification.
func (b *BoardBuilder) ExcludeFromAging(stageIDs ...string) *BoardBuilder {
	b.cfg.Aging.ExcludedStages = append(b.cfg.Aging.ExcludedStages, stageIDs...)
	return b
}

// Build constructs an Engine for this board with an optional seed.
func (b *BoardBuilder) Build(seed []WorkItem) (Engine, error) {
	return NewEngine(b.cfg, seed)
}

// MustBuild is like Build but panics on error.
// Useful for initialization in main().
func (b *BoardBuilder) MustBuild(seed []WorkItem) Engine {
	eng, err := b.Build(seed)
	if err != nil {
		panic(err)
	}
	return eng
}
