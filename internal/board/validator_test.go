package board

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/flowboard/pkg/api"
)

func TestValidate_ItemNotFound(t *testing.T) {
	s := newTestState(t, nil)

	_, err := Validate(s, "ghost", "ready", api.Last())
	require.True(t, api.IsRejection(err, api.ReasonItemNotFound))
}

func TestValidate_UnknownStage(t *testing.T) {
	s := newTestState(t, []api.WorkItem{item("a", "ready", 1000)})

	_, err := Validate(s, "a", "limbo", api.Last())
	require.True(t, api.IsRejection(err, api.ReasonUnknownStage))
}

func TestValidate_WipLimit(t *testing.T) {
	s := newTestState(t, []api.WorkItem{
		item("a", "in_progress", 1000),
		item("b", "in_progress", 2000),
		item("c", "in_progress", 3000),
		item("d", "ready", 1000),
	})

	// in_progress is at its limit of 3: inbound move rejected.
	_, err := Validate(s, "d", "in_progress", api.Last())
	require.True(t, api.IsRejection(err, api.ReasonWipLimitExceeded))

	var rej *api.Rejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, 3, rej.Limit)
	require.Equal(t, 4, rej.Count)

	// review has room: accepted, rank lands past the (empty) sequence.
	rank, err := Validate(s, "d", "review", api.Last())
	require.NoError(t, err)
	require.Greater(t, rank, 0.0)
}

func TestValidate_WipLimitBoundary(t *testing.T) {
	// Below the limit the move is accepted; at the limit it is rejected.
	s := newTestState(t, []api.WorkItem{
		item("a", "in_progress", 1000),
		item("b", "in_progress", 2000),
		item("d", "ready", 1000),
	})

	_, err := Validate(s, "d", "in_progress", api.Last())
	require.NoError(t, err)

	s.Put(item("c", "in_progress", 3000))
	_, err = Validate(s, "d", "in_progress", api.Last())
	require.True(t, api.IsRejection(err, api.ReasonWipLimitExceeded))
}

func TestValidate_ReorderNeverChecksWip(t *testing.T) {
	// review is over its limit of 3 via out-of-band seeding. Reordering an
	// existing occupant is still legal; capacity guards inbound moves only.
	s := newTestState(t, []api.WorkItem{
		item("a", "review", 1000),
		item("b", "review", 2000),
		item("c", "review", 3000),
		item("d", "review", 4000),
	})

	rank, err := Validate(s, "d", "review", api.First())
	require.NoError(t, err)
	require.Less(t, rank, 1000.0)

	// An inbound move into the same over-limit stage stays blocked.
	s.Put(item("e", "ready", 1000))
	_, err = Validate(s, "e", "review", api.Last())
	require.True(t, api.IsRejection(err, api.ReasonWipLimitExceeded))
}

func TestValidate_PositionHints(t *testing.T) {
	s := newTestState(t, []api.WorkItem{
		item("a", "ready", 1000),
		item("b", "ready", 2000),
		item("c", "ready", 3000),
	})

	rank, err := Validate(s, "c", "ready", api.First())
	require.NoError(t, err)
	require.Less(t, rank, 1000.0)

	rank, err = Validate(s, "a", "ready", api.Last())
	require.NoError(t, err)
	require.Greater(t, rank, 3000.0)

	// Midpoint between a (1000) and b (2000).
	rank, err = Validate(s, "c", "ready", api.Before("b"))
	require.NoError(t, err)
	require.Equal(t, 1500.0, rank)

	rank, err = Validate(s, "c", "ready", api.After("a"))
	require.NoError(t, err)
	require.Equal(t, 1500.0, rank)

	// Before the first sibling goes beyond its rank, not to a midpoint.
	rank, err = Validate(s, "c", "ready", api.Before("a"))
	require.NoError(t, err)
	require.Less(t, rank, 1000.0)

	rank, err = Validate(s, "a", "ready", api.After("c"))
	require.NoError(t, err)
	require.Greater(t, rank, 3000.0)

	rank, err = Validate(s, "a", "ready", api.AtRank(2500))
	require.NoError(t, err)
	require.Equal(t, 2500.0, rank)
}

func TestValidate_NeighborsIgnoreTheMovingItem(t *testing.T) {
	s := newTestState(t, []api.WorkItem{
		item("a", "ready", 1000),
		item("b", "ready", 2000),
	})

	// After "b" with only a and b present: b is the last remaining
	// sibling once "a" vacates its slot, so the rank lands past b.
	rank, err := Validate(s, "a", "ready", api.After("b"))
	require.NoError(t, err)
	require.Greater(t, rank, 2000.0)
}

func TestValidate_MissingSibling(t *testing.T) {
	s := newTestState(t, []api.WorkItem{
		item("a", "ready", 1000),
		item("b", "in_progress", 1000),
	})

	// Sibling is on the board but not in the target stage.
	_, err := Validate(s, "a", "ready", api.After("b"))
	require.True(t, api.IsRejection(err, api.ReasonItemNotFound))

	// Empty target stage cannot satisfy a sibling hint either.
	_, err = Validate(s, "a", "review", api.Before("ghost"))
	require.True(t, api.IsRejection(err, api.ReasonItemNotFound))
}

func TestValidate_RankCollision(t *testing.T) {
	// Adjacent float64 values leave no representable midpoint.
	lo := 1.0
	hi := math.Nextafter(lo, 2)
	s := newTestState(t, []api.WorkItem{
		item("a", "ready", lo),
		item("b", "ready", hi),
		item("c", "ready", 5000),
	})

	_, err := Validate(s, "c", "ready", api.After("a"))
	require.True(t, api.IsRejection(err, api.ReasonRankCollision))

	// An explicit rank equal to an existing rank is a collision too.
	_, err = Validate(s, "c", "ready", api.AtRank(lo))
	require.True(t, api.IsRejection(err, api.ReasonRankCollision))
}

func TestValidate_CollisionClearsAfterRenormalize(t *testing.T) {
	lo := 1.0
	hi := math.Nextafter(lo, 2)
	s := newTestState(t, []api.WorkItem{
		item("a", "ready", lo),
		item("b", "ready", hi),
		item("c", "ready", 5000),
	})

	_, err := Validate(s, "c", "ready", api.After("a"))
	require.True(t, api.IsRejection(err, api.ReasonRankCollision))

	s.Renormalize("ready")

	rank, err := Validate(s, "c", "ready", api.After("a"))
	require.NoError(t, err)
	require.Equal(t, 1500.0, rank)
}

func TestValidateAdd(t *testing.T) {
	s := newTestState(t, []api.WorkItem{
		item("a", "in_progress", 1000),
		item("b", "in_progress", 2000),
		item("c", "in_progress", 3000),
	})

	// Adding into a full stage is an inbound transition from "nowhere".
	_, err := ValidateAdd(s, api.WorkItemInit{StageID: "in_progress"})
	require.True(t, api.IsRejection(err, api.ReasonWipLimitExceeded))

	rank, err := ValidateAdd(s, api.WorkItemInit{StageID: "ready"})
	require.NoError(t, err)
	require.Equal(t, 1000.0, rank)

	_, err = ValidateAdd(s, api.WorkItemInit{ID: "a", StageID: "ready"})
	require.True(t, api.IsRejection(err, api.ReasonDuplicateItem))

	_, err = ValidateAdd(s, api.WorkItemInit{StageID: "limbo"})
	require.True(t, api.IsRejection(err, api.ReasonUnknownStage))
}
