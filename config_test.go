package flowboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
name: Delivery Flow
stages:
  - id: ready
  - id: in_progress
    wip_limit: 3
  - id: review
    wip_limit: 3
  - id: released
aging:
  threshold: 72h
  exclude: [ready]
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	require.Equal(t, "Delivery Flow", cfg.Name)
	require.Len(t, cfg.Stages, 4)
	require.Equal(t, "ready", cfg.Stages[0].ID)
	require.Equal(t, 0, cfg.Stages[0].DisplayOrder)
	require.True(t, cfg.Stages[0].Unbounded())
	require.Equal(t, "in_progress", cfg.Stages[1].ID)
	require.Equal(t, 3, cfg.Stages[1].WipLimit)
	require.Equal(t, "released", cfg.Stages[3].ID)
	require.Equal(t, 3, cfg.Stages[3].DisplayOrder)

	require.Equal(t, 72*time.Hour, cfg.Aging.Threshold)
	require.True(t, cfg.Aging.Excludes("ready"))
	require.False(t, cfg.Aging.Excludes("review"))
}

func TestParseConfig_NoAgingSection(t *testing.T) {
	cfg, err := ParseConfig([]byte("name: b\nstages:\n  - id: ready\n"))
	require.NoError(t, err)
	require.Zero(t, cfg.Aging.Threshold)
	require.Empty(t, cfg.Aging.ExcludedStages)
}

func TestParseConfig_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "stages: ["},
		{"no stages", "name: b\n"},
		{"negative wip limit", "stages:\n  - id: ready\n    wip_limit: -1\n"},
		{"bad threshold", "stages:\n  - id: ready\naging:\n  threshold: three days\n"},
		{"negative threshold", "stages:\n  - id: ready\naging:\n  threshold: -1h\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.doc))
			require.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "Delivery Flow", cfg.Name)
	require.Len(t, cfg.Stages, 4)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
