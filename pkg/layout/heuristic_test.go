package layout

import (
	"math"
	"testing"
)

func TestScorerFor(t *testing.T) {
	tests := []struct {
		h    Heuristic
		want scorer
	}{
		{BestShortSideFit, shortSideFit{}},
		{BestAreaFit, areaFit{}},
		{BestLongSideFit, longSideFit{}},
		{Heuristic("bogus"), shortSideFit{}}, // validated elsewhere; defaults here
	}
	for _, tt := range tests {
		if got := scorerFor(tt.h); got != tt.want {
			t.Errorf("scorerFor(%q) = %T, want %T", tt.h, got, tt.want)
		}
	}
}

func TestHeuristicScores(t *testing.T) {
	free := Rect{W: 50, H: 30}

	if got := (shortSideFit{}).score(free, 40, 25); math.Abs(got-5) > 1e-9 {
		t.Errorf("short-side score = %v, want 5", got)
	}
	if got := (longSideFit{}).score(free, 40, 25); math.Abs(got-10) > 1e-9 {
		t.Errorf("long-side score = %v, want 10", got)
	}
	// Leftover area plus a small short-side tiebreak.
	if got := (areaFit{}).score(free, 40, 25); math.Abs(got-500.000005) > 1e-6 {
		t.Errorf("area score = %v, want ~500", got)
	}
}

// The short-side heuristic should prefer the snugger of two candidates
// even when the other has less total leftover area.
func TestShortSideFitPrefersSnugFit(t *testing.T) {
	snug := Rect{W: 42, H: 60}  // short side leftover 2
	roomy := Rect{W: 45, H: 30} // short side leftover 5, smaller area
	w, h := 40.0, 25.0

	s := shortSideFit{}
	if s.score(snug, w, h) >= s.score(roomy, w, h) {
		t.Errorf("snug fit not preferred: snug=%v roomy=%v", s.score(snug, w, h), s.score(roomy, w, h))
	}
}
