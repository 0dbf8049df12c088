package layout

import (
	"math"
	"testing"
)

func rectEq(a, b Rect) bool {
	const tol = 1e-9
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol &&
		math.Abs(a.W-b.W) < tol && math.Abs(a.H-b.H) < tol
}

func containsRect(rs []Rect, want Rect) bool {
	for _, r := range rs {
		if rectEq(r, want) {
			return true
		}
	}
	return false
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name string
		base Rect
		cut  Rect
		want []Rect
	}{
		{
			name: "NoOverlap",
			base: Rect{X: 0, Y: 0, W: 10, H: 10},
			cut:  Rect{X: 20, Y: 20, W: 5, H: 5},
			want: []Rect{{X: 0, Y: 0, W: 10, H: 10}},
		},
		{
			name: "FullyCovered",
			base: Rect{X: 2, Y: 2, W: 4, H: 4},
			cut:  Rect{X: 0, Y: 0, W: 10, H: 10},
			want: nil,
		},
		{
			name: "CutTopLeftCorner",
			base: Rect{X: 0, Y: 0, W: 10, H: 10},
			cut:  Rect{X: 0, Y: 0, W: 4, H: 4},
			want: []Rect{
				{X: 4, Y: 0, W: 6, H: 10},
				{X: 0, Y: 4, W: 10, H: 6},
			},
		},
		{
			name: "CutCenter",
			base: Rect{X: 0, Y: 0, W: 10, H: 10},
			cut:  Rect{X: 3, Y: 3, W: 4, H: 4},
			want: []Rect{
				{X: 0, Y: 0, W: 3, H: 10},
				{X: 7, Y: 0, W: 3, H: 10},
				{X: 0, Y: 0, W: 10, H: 3},
				{X: 0, Y: 7, W: 10, H: 3},
			},
		},
		{
			name: "CutVerticalBand",
			base: Rect{X: 0, Y: 0, W: 10, H: 10},
			cut:  Rect{X: 4, Y: 0, W: 2, H: 10},
			want: []Rect{
				{X: 0, Y: 0, W: 4, H: 10},
				{X: 6, Y: 0, W: 4, H: 10},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := subtract(tt.base, tt.cut)
			if len(got) != len(tt.want) {
				t.Fatalf("subtract returned %d strips, want %d: %v", len(got), len(tt.want), got)
			}
			for _, w := range tt.want {
				if !containsRect(got, w) {
					t.Errorf("missing strip %v in %v", w, got)
				}
			}
		})
	}
}

func TestFreePoolDiscardsSlivers(t *testing.T) {
	p := newFreePool(100, 100, 20, 12)

	p.add(Rect{X: 0, Y: 0, W: 19, H: 50}) // too narrow
	p.add(Rect{X: 0, Y: 0, W: 50, H: 11}) // too short
	if len(p.rects) != 1 {
		t.Fatalf("slivers retained: pool has %d rects, want 1", len(p.rects))
	}

	p.add(Rect{X: 0, Y: 0, W: 20, H: 12}) // exactly usable
	if len(p.rects) != 2 {
		t.Fatalf("usable minimum rejected: pool has %d rects, want 2", len(p.rects))
	}
}

func TestFreePoolCarve(t *testing.T) {
	p := newFreePool(100, 100, 1, 1)
	p.carve(Rect{X: 0, Y: 0, W: 40, H: 100})

	if len(p.rects) != 1 {
		t.Fatalf("pool has %d rects after carve, want 1: %v", len(p.rects), p.rects)
	}
	want := Rect{X: 40, Y: 0, W: 60, H: 100}
	if !rectEq(p.rects[0], want) {
		t.Errorf("carved remainder = %v, want %v", p.rects[0], want)
	}
}

func TestFreePoolPruneContained(t *testing.T) {
	p := newFreePool(100, 100, 1, 1)
	p.add(Rect{X: 10, Y: 10, W: 20, H: 20}) // inside the seed rect
	p.add(Rect{X: 0, Y: 0, W: 100, H: 100}) // duplicate of the seed
	p.prune()

	if len(p.rects) != 1 {
		t.Fatalf("pool has %d rects after prune, want 1: %v", len(p.rects), p.rects)
	}
	if !rectEq(p.rects[0], Rect{X: 0, Y: 0, W: 100, H: 100}) {
		t.Errorf("wrong survivor: %v", p.rects[0])
	}
}

func TestFreePoolAddClipped(t *testing.T) {
	p := newFreePool(0, 0, 1, 1) // empty pool
	occupied := []Rect{{X: 40, Y: 0, W: 20, H: 10}}
	p.addClipped(Rect{X: 0, Y: 0, W: 100, H: 10}, occupied)

	if len(p.rects) != 2 {
		t.Fatalf("pool has %d rects, want 2: %v", len(p.rects), p.rects)
	}
	if !containsRect(p.rects, Rect{X: 0, Y: 0, W: 40, H: 10}) ||
		!containsRect(p.rects, Rect{X: 60, Y: 0, W: 40, H: 10}) {
		t.Errorf("clipped pieces = %v", p.rects)
	}
}
