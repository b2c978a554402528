package board

// Rank allocation. Ranks are float64 sort keys; new items land strictly
// between their neighbors via midpoint allocation. When the midpoint is no
// longer strictly between the neighbors the float precision is exhausted and
// the caller must renormalize the stage before retrying.

const (
	// renormStep is the spacing used when reassigning a stage's ranks.
	renormStep = 1000

	// rankGap is the spacing used when appending beyond the first or last
	// existing rank, leaving room for future midpoints.
	rankGap = 1000
)

// midpoint returns the rank halfway between lo and hi and whether it is
// strictly between them. lo < hi is the caller's responsibility.
func midpoint(lo, hi float64) (float64, bool) {
	mid := lo + (hi-lo)/2
	if mid <= lo || mid >= hi {
		return 0, false
	}
	return mid, true
}

// rankBefore returns a rank placing an item before the given first rank.
func rankBefore(first float64) float64 {
	return first - rankGap
}

// rankAfter returns a rank placing an item after the given last rank.
func rankAfter(last float64) float64 {
	return last + rankGap
}

// evenRanks returns n evenly spaced integer ranks starting at renormStep:
// 1000, 2000, 3000, ...
func evenRanks(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64((i + 1) * renormStep)
	}
	return out
}
