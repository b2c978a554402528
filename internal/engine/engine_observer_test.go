package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/flowboard/pkg/api"
)

// recordingObserver captures callback names in order.
type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recordingObserver) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recordingObserver) OnItemAdded(board string, item api.WorkItem)              { r.record("added") }
func (r *recordingObserver) OnItemMoved(board string, item api.WorkItem, from string) { r.record("moved") }
func (r *recordingObserver) OnItemRemoved(board string, item api.WorkItem)            { r.record("removed") }
func (r *recordingObserver) OnMoveRejected(board string, rej *api.Rejection)          { r.record("rejected") }
func (r *recordingObserver) OnRanksRenormalized(board string, stageID string, n int) {
	r.record("renormalized")
}

func TestEngine_ObserverCallbacks(t *testing.T) {
	obs := &recordingObserver{}
	eng, err := NewWithConfig(deliveryConfig(), nil, Config{Observer: obs})
	require.NoError(t, err)

	_, _, err = eng.AddItem(api.WorkItemInit{ID: "a", StageID: "ready"})
	require.NoError(t, err)

	_, err = eng.MoveItem("a", "in_progress", api.Last())
	require.NoError(t, err)

	_, err = eng.MoveItem("ghost", "ready", api.Last())
	require.Error(t, err)

	_, err = eng.RenormalizeStage("in_progress")
	require.NoError(t, err)

	_, removed := eng.RemoveItem("a")
	require.True(t, removed)

	// Idempotent removal of a missing item stays silent.
	_, removed = eng.RemoveItem("a")
	require.False(t, removed)

	require.Equal(t, []string{"added", "moved", "rejected", "renormalized", "removed"}, obs.Calls())
}

func TestEngine_ObserverSeesFromStage(t *testing.T) {
	var gotFrom, gotTo string
	obs := &moveObserver{onMoved: func(item api.WorkItem, from string) {
		gotFrom = from
		gotTo = item.StageID
	}}

	eng, err := NewWithConfig(deliveryConfig(), []api.WorkItem{
		seedItem("a", "ready", 1000, time.Now()),
	}, Config{Observer: obs})
	require.NoError(t, err)

	_, err = eng.MoveItem("a", "review", api.Last())
	require.NoError(t, err)
	require.Equal(t, "ready", gotFrom)
	require.Equal(t, "review", gotTo)

	// A reorder reports the same stage on both sides.
	_, err = eng.MoveItem("a", "review", api.First())
	require.NoError(t, err)
	require.Equal(t, "review", gotFrom)
	require.Equal(t, "review", gotTo)
}

type moveObserver struct {
	api.NoopObserver
	onMoved func(item api.WorkItem, from string)
}

func (m *moveObserver) OnItemMoved(board string, item api.WorkItem, from string) {
	m.onMoved(item, from)
}

func TestBasicMetricsThroughEngine(t *testing.T) {
	metrics := &api.BasicMetrics{}
	eng, err := NewWithConfig(deliveryConfig(), nil, Config{Observer: metrics})
	require.NoError(t, err)

	_, _, err = eng.AddItem(api.WorkItemInit{ID: "a", StageID: "ready"})
	require.NoError(t, err)
	_, err = eng.MoveItem("a", "review", api.Last())
	require.NoError(t, err)
	_, err = eng.MoveItem("ghost", "ready", api.Last())
	require.Error(t, err)

	snap := metrics.Snapshot()
	require.Equal(t, int64(1), snap.ItemsAdded)
	require.Equal(t, int64(1), snap.ItemsMoved)
	require.Equal(t, int64(1), snap.MovesRejected)
}
