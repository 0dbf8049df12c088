package layout

import (
	"math"
	"testing"
)

func TestPackerFirstPlacementAtOrigin(t *testing.T) {
	p := newPacker(Rect{W: 200, H: 100}, DefaultConfig())

	r, ok := p.place(80, 40)
	if !ok {
		t.Fatal("place failed on empty packer")
	}
	if !rectEq(r, Rect{X: 0, Y: 0, W: 80, H: 40}) {
		t.Fatalf("first placement = %v, want 80x40 at origin", r)
	}
	if !containsRect(p.pool.rects, Rect{X: 80, Y: 0, W: 120, H: 100}) {
		t.Errorf("right residual missing: %v", p.pool.rects)
	}
	if !containsRect(p.pool.rects, Rect{X: 0, Y: 40, W: 80, H: 60}) {
		t.Errorf("bottom residual missing: %v", p.pool.rects)
	}
}

// The default short-side heuristic should pick the snuggest residual for
// the second item: the bottom rectangle fits an 80-wide item exactly.
func TestPackerShortSideFitPicksSnugResidual(t *testing.T) {
	p := newPacker(Rect{W: 200, H: 100}, DefaultConfig())

	if _, ok := p.place(80, 40); !ok {
		t.Fatal("first place failed")
	}
	r, ok := p.place(80, 40)
	if !ok {
		t.Fatal("second place failed")
	}
	if !rectEq(r, Rect{X: 0, Y: 40, W: 80, H: 40}) {
		t.Errorf("second placement = %v, want 80x40 at (0,40)", r)
	}
}

// When the right residual is a sliver, the bottom residual widens to the
// full content width instead.
func TestPackerBottomResidualExtension(t *testing.T) {
	p := newPacker(Rect{W: 210, H: 100}, DefaultConfig())

	// Leaves a 10-wide right sliver, below the 20 minimum.
	if _, ok := p.place(200, 40); !ok {
		t.Fatal("place failed")
	}
	if !containsRect(p.pool.rects, Rect{X: 0, Y: 40, W: 210, H: 60}) {
		t.Errorf("extended bottom residual missing: %v", p.pool.rects)
	}
	for _, fr := range p.pool.rects {
		if fr.W < 20 {
			t.Errorf("sliver retained: %v", fr)
		}
	}
}

func TestPackerFallbackSqueezesWidth(t *testing.T) {
	p := newPacker(Rect{W: 100, H: 50}, DefaultConfig())

	if _, ok := p.place(60, 50); !ok {
		t.Fatal("first place failed")
	}
	// Only a 40-wide residual remains; the 60-wide request must squeeze.
	r, ok := p.place(60, 40)
	if !ok {
		t.Fatal("fallback failed")
	}
	if r.X != 60 || r.Y != 0 {
		t.Errorf("fallback position = (%v,%v), want (60,0)", r.X, r.Y)
	}
	if want := 0.98 * 40; math.Abs(r.W-want) > 1e-9 {
		t.Errorf("fallback width = %v, want %v", r.W, want)
	}
	if r.H != 40 {
		t.Errorf("fallback height = %v, want 40", r.H)
	}
}

func TestPackerFallbackRespectsAspectCeiling(t *testing.T) {
	cfg := DefaultConfig()
	p := newPacker(Rect{W: 400, H: 30}, cfg)

	r, ok := p.place(500, 4)
	if !ok {
		t.Fatal("fallback failed")
	}
	if ratio := r.W / r.H; ratio > cfg.FallbackMaxAspectRatio+1e-9 {
		t.Errorf("fallback aspect ratio %v exceeds ceiling %v", ratio, cfg.FallbackMaxAspectRatio)
	}
}

func TestPackerExhaustion(t *testing.T) {
	p := newPacker(Rect{W: 100, H: 50}, DefaultConfig())

	if _, ok := p.place(100, 50); !ok {
		t.Fatal("place failed")
	}
	if r, ok := p.place(10, 10); ok {
		t.Errorf("place succeeded on full packer: %v", r)
	}
}

func TestPackerReclaim(t *testing.T) {
	p := newPacker(Rect{W: 200, H: 100}, DefaultConfig())

	alloc, ok := p.place(100, 100)
	if !ok {
		t.Fatal("place failed")
	}
	p.reclaim(alloc, Rect{X: 0, Y: 0, W: 100, H: 40})

	// The reclaimed strip is the snuggest fit for a 90x55 item.
	r, ok := p.place(90, 55)
	if !ok {
		t.Fatal("place after reclaim failed")
	}
	if !rectEq(r, Rect{X: 0, Y: 40, W: 90, H: 55}) {
		t.Errorf("placement = %v, want reclaimed strip at (0,40)", r)
	}
}

func TestPackerUtilization(t *testing.T) {
	p := newPacker(Rect{W: 200, H: 100}, DefaultConfig())

	alloc, _ := p.place(100, 100)
	p.reclaim(alloc, Rect{X: 0, Y: 0, W: 100, H: 40})

	if got := p.utilization(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("utilization = %v, want 0.2", got)
	}
}
