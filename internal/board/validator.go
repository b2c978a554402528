package board

import (
	"github.com/petrijr/flowboard/pkg/api"
)

// The transition validator. Pure decision functions over a State: they never
// mutate anything, they only say whether a proposed transition is legal and,
// if so, what final rank it resolves to.

// Validate decides whether moving itemID to targetStageID at the hinted
// position is legal given the current state, and resolves the final rank.
//
// The WIP ceiling is enforced only on inbound transitions: a move that keeps
// the item in its current stage is a pure reorder and never triggers the
// check, even when the stage is already at or over its limit.
func Validate(s *State, itemID, targetStageID string, pos api.PositionHint) (float64, error) {
	item, ok := s.Item(itemID)
	if !ok {
		return 0, api.NewRejection(api.ReasonItemNotFound, itemID, targetStageID)
	}

	// A same-stage target is the item's own configured stage, so only
	// inbound moves need the stage lookup and the WIP check.
	if targetStageID != item.StageID {
		if err := checkInbound(s, itemID, targetStageID); err != nil {
			return 0, err
		}
	}

	siblings := siblingsExcluding(s, targetStageID, itemID)
	return resolveRank(itemID, targetStageID, siblings, pos)
}

// ValidateAdd decides whether a brand-new item may enter init.StageID. The
// add is logically an inbound transition from "nowhere", so the same WIP
// check applies.
func ValidateAdd(s *State, init api.WorkItemInit) (float64, error) {
	if init.ID != "" {
		if _, dup := s.Item(init.ID); dup {
			return 0, api.NewRejection(api.ReasonDuplicateItem, init.ID, init.StageID)
		}
	}

	if err := checkInbound(s, init.ID, init.StageID); err != nil {
		return 0, err
	}

	siblings := s.ItemsIn(init.StageID)
	return resolveRank(init.ID, init.StageID, siblings, init.Position)
}

// checkInbound verifies the stage exists and that the prospective count
// (current occupancy plus the arriving item) stays within a finite limit.
func checkInbound(s *State, itemID, stageID string) error {
	limit, err := s.registry.WipLimitOf(stageID)
	if err != nil {
		if rej, ok := err.(*api.Rejection); ok {
			rej.ItemID = itemID
		}
		return err
	}
	if limit <= 0 {
		return nil
	}

	prospective := s.CountIn(stageID) + 1
	if prospective > limit {
		return &api.Rejection{
			Reason:  api.ReasonWipLimitExceeded,
			ItemID:  itemID,
			StageID: stageID,
			Limit:   limit,
			Count:   prospective,
		}
	}
	return nil
}

// siblingsExcluding returns the target stage's ordered items without the
// moving item, so neighbor ranks are computed against the sequence as it
// will look once the item leaves its old slot.
func siblingsExcluding(s *State, stageID, itemID string) []api.WorkItem {
	items := s.ItemsIn(stageID)
	out := items[:0]
	for _, it := range items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	return out
}

// resolveRank turns a position hint into a final numeric rank strictly
// between its neighbors (or beyond the first/last existing rank). When
// midpoint allocation runs out of float precision it rejects with
// ReasonRankCollision; the caller is expected to renormalize the stage and
// retry.
func resolveRank(itemID, stageID string, siblings []api.WorkItem, pos api.PositionHint) (float64, error) {
	collision := func() error {
		return api.NewRejection(api.ReasonRankCollision, itemID, stageID)
	}

	if len(siblings) == 0 {
		switch pos.Kind {
		case api.PositionRank:
			return pos.Rank, nil
		case api.PositionBefore, api.PositionAfter:
			return 0, api.NewRejection(api.ReasonItemNotFound, pos.SiblingID, stageID)
		default:
			return float64(renormStep), nil
		}
	}

	switch pos.Kind {
	case api.PositionLast:
		return rankAfter(siblings[len(siblings)-1].Rank), nil

	case api.PositionFirst:
		return rankBefore(siblings[0].Rank), nil

	case api.PositionRank:
		for _, sib := range siblings {
			if sib.Rank == pos.Rank {
				return 0, collision()
			}
		}
		return pos.Rank, nil

	case api.PositionBefore, api.PositionAfter:
		idx := -1
		for i, sib := range siblings {
			if sib.ID == pos.SiblingID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return 0, api.NewRejection(api.ReasonItemNotFound, pos.SiblingID, stageID)
		}

		lo, hi := idx-1, idx
		if pos.Kind == api.PositionAfter {
			lo, hi = idx, idx+1
		}
		if lo < 0 {
			return rankBefore(siblings[hi].Rank), nil
		}
		if hi >= len(siblings) {
			return rankAfter(siblings[lo].Rank), nil
		}
		mid, ok := midpoint(siblings[lo].Rank, siblings[hi].Rank)
		if !ok {
			return 0, collision()
		}
		return mid, nil

	default:
		return rankAfter(siblings[len(siblings)-1].Rank), nil
	}
}
