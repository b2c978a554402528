package board

import (
	"testing"
	"time"

	"github.com/petrijr/flowboard/pkg/api"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	policy := api.AgingPolicy{
		Threshold:      3 * 24 * time.Hour,
		ExcludedStages: []string{"ready"},
	}

	fourDaysAgo := now.Add(-4 * 24 * time.Hour)
	twoDaysAgo := now.Add(-2 * 24 * time.Hour)

	tests := []struct {
		name string
		item api.WorkItem
		want api.Freshness
	}{
		{
			name: "over threshold in tracked stage",
			item: api.WorkItem{ID: "a", StageID: "in_progress", EnteredStageAt: fourDaysAgo},
			want: api.Aging,
		},
		{
			name: "under threshold in tracked stage",
			item: api.WorkItem{ID: "b", StageID: "in_progress", EnteredStageAt: twoDaysAgo},
			want: api.Fresh,
		},
		{
			name: "excluded stage stays fresh regardless of elapsed time",
			item: api.WorkItem{ID: "c", StageID: "ready", EnteredStageAt: fourDaysAgo},
			want: api.Fresh,
		},
		{
			name: "exactly at threshold is not yet aging",
			item: api.WorkItem{ID: "d", StageID: "review", EnteredStageAt: now.Add(-policy.Threshold)},
			want: api.Fresh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.item, now, policy); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassify_ZeroThresholdDisablesAging(t *testing.T) {
	now := time.Now()
	old := api.WorkItem{ID: "a", StageID: "in_progress", EnteredStageAt: now.Add(-365 * 24 * time.Hour)}

	if got := Classify(old, now, api.AgingPolicy{}); got != api.Fresh {
		t.Fatalf("expected Fresh with aging disabled, got %s", got)
	}
}
