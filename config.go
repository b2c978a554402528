package flowboard

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/flowboard/pkg/api"
)

// YAML board configuration. This is the document the board configuration
// collaborator supplies at session start:
//
//	name: Delivery Flow
//	stages:
//	  - id: ready
//	  - id: in_progress
//	    wip_limit: 3
//	  - id: review
//	    wip_limit: 3
//	  - id: released
//	aging:
//	  threshold: 72h
//	  exclude: [ready]
//
// Stage order in the document is pipeline order.

type configDoc struct {
	Name   string     `yaml:"name"`
	Stages []stageDoc `yaml:"stages"`
	Aging  agingDoc   `yaml:"aging"`
}

type stageDoc struct {
	ID       string `yaml:"id"`
	WipLimit int    `yaml:"wip_limit"`
}

type agingDoc struct {
	Threshold string   `yaml:"threshold"`
	Exclude   []string `yaml:"exclude"`
}

// ParseConfig parses a YAML board configuration document.
func ParseConfig(data []byte) (BoardConfig, error) {
	var doc configDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return BoardConfig{}, fmt.Errorf("flowboard: parsing board config: %w", err)
	}

	if len(doc.Stages) == 0 {
		return BoardConfig{}, fmt.Errorf("flowboard: board config needs at least one stage")
	}

	cfg := BoardConfig{
		Name:   doc.Name,
		Stages: make([]api.Stage, 0, len(doc.Stages)),
	}
	for i, s := range doc.Stages {
		if s.WipLimit < 0 {
			return BoardConfig{}, fmt.Errorf("flowboard: stage %q has negative wip_limit", s.ID)
		}
		cfg.Stages = append(cfg.Stages, api.Stage{
			ID:           s.ID,
			DisplayOrder: i,
			WipLimit:     s.WipLimit,
		})
	}

	if doc.Aging.Threshold != "" {
		threshold, err := time.ParseDuration(doc.Aging.Threshold)
		if err != nil {
			return BoardConfig{}, fmt.Errorf("flowboard: parsing aging threshold: %w", err)
		}
		if threshold < 0 {
			return BoardConfig{}, fmt.Errorf("flowboard: aging threshold must not be negative")
		}
		cfg.Aging.Threshold = threshold
	}
	cfg.Aging.ExcludedStages = doc.Aging.Exclude

	return cfg, nil
}

// LoadConfig reads and parses a YAML board configuration file.
func LoadConfig(path string) (BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BoardConfig{}, fmt.Errorf("flowboard: reading board config: %w", err)
	}
	return ParseConfig(data)
}
