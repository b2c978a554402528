package board

import (
	"time"

	"github.com/petrijr/flowboard/pkg/api"
)

// Classify computes the staleness of one item at the given reference time.
// An item is Aging iff its stage is not excluded by the policy and it has
// been in that stage longer than the threshold. A zero threshold disables
// aging. O(1), no side effects.
func Classify(item api.WorkItem, now time.Time, policy api.AgingPolicy) api.Freshness {
	if policy.Threshold <= 0 {
		return api.Fresh
	}
	if policy.Excludes(item.StageID) {
		return api.Fresh
	}
	if now.Sub(item.EnteredStageAt) > policy.Threshold {
		return api.Aging
	}
	return api.Fresh
}
