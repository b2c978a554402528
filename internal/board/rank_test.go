package board

import (
	"math"
	"testing"
)

func TestMidpoint(t *testing.T) {
	mid, ok := midpoint(1000, 2000)
	if !ok || mid != 1500 {
		t.Fatalf("expected midpoint 1500, got %v (ok=%v)", mid, ok)
	}

	// Adjacent floats have no representable midpoint.
	lo := 1.0
	hi := math.Nextafter(lo, 2)
	if _, ok := midpoint(lo, hi); ok {
		t.Fatal("expected precision exhaustion between adjacent floats")
	}
}

func TestRankBeyondEnds(t *testing.T) {
	if got := rankBefore(1000); got >= 1000 {
		t.Fatalf("rankBefore must go below the first rank, got %v", got)
	}
	if got := rankAfter(3000); got <= 3000 {
		t.Fatalf("rankAfter must go past the last rank, got %v", got)
	}
}

func TestEvenRanks(t *testing.T) {
	got := evenRanks(3)
	want := []float64{1000, 2000, 3000}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if len(evenRanks(0)) != 0 {
		t.Fatal("expected no ranks for an empty stage")
	}
}
