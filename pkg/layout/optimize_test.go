package layout

import (
	"math"
	"testing"
)

func TestOptimizeTargetsNoOpWhenDense(t *testing.T) {
	content := Rect{W: 100, H: 100}
	items := []*packItem{
		{targetW: 70, targetH: 70},
		{targetW: 70, targetH: 70},
	}
	optimizeTargets(items, content, DefaultConfig())

	for i, it := range items {
		if it.targetW != 70 || it.targetH != 70 {
			t.Errorf("item %d resized to %vx%v at high utilization", i, it.targetW, it.targetH)
		}
	}
}

func TestOptimizeTargetsLeavesLoneItemAlone(t *testing.T) {
	content := Rect{W: 400, H: 300}
	items := []*packItem{{targetW: 80, targetH: 40}}
	optimizeTargets(items, content, DefaultConfig())

	if items[0].targetW != 80 || items[0].targetH != 40 {
		t.Errorf("lone item resized to %vx%v", items[0].targetW, items[0].targetH)
	}
}

// Between the critical and low thresholds only below-average items widen,
// and only in width.
func TestOptimizeTargetsWidensBelowAverage(t *testing.T) {
	content := Rect{W: 100, H: 100}
	items := []*packItem{
		{targetW: 60, targetH: 60},
		{targetW: 40, targetH: 40},
		{targetW: 40, targetH: 40},
	}
	optimizeTargets(items, content, DefaultConfig())

	if items[0].targetW != 60 || items[0].targetH != 60 {
		t.Errorf("above-average item resized to %vx%v", items[0].targetW, items[0].targetH)
	}
	wantW := 40 * math.Sqrt(1/0.68)
	for _, it := range items[1:] {
		if math.Abs(it.targetW-wantW) > 1e-9 {
			t.Errorf("below-average width = %v, want %v", it.targetW, wantW)
		}
		if it.targetH != 40 {
			t.Errorf("below-average height changed: %v", it.targetH)
		}
	}
}

// Below the critical threshold the whole batch scales up in area,
// preserving aspect ratios, even with just two items.
func TestOptimizeTargetsCriticalExpansion(t *testing.T) {
	content := Rect{W: 100, H: 100}
	items := []*packItem{
		{targetW: 35, targetH: 35},
		{targetW: 35, targetH: 35},
	}
	optimizeTargets(items, content, DefaultConfig())

	want := 35 * math.Sqrt(3)
	var used float64
	for i, it := range items {
		if math.Abs(it.targetW-want) > 1e-9 || math.Abs(it.targetH-want) > 1e-9 {
			t.Errorf("item %d = %vx%v, want %vx%v", i, it.targetW, it.targetH, want, want)
		}
		used += it.area()
	}
	if u := used / content.Area(); u < 0.6 {
		t.Errorf("post-expansion utilization = %v, want >= 0.6", u)
	}
}

func TestOptimizeTargetsCapsAtContent(t *testing.T) {
	content := Rect{W: 100, H: 40}
	items := []*packItem{
		{targetW: 60, targetH: 30},
		{targetW: 20, targetH: 10},
		{targetW: 20, targetH: 10},
	}
	optimizeTargets(items, content, DefaultConfig())

	for i, it := range items {
		if it.targetW > content.W+1e-9 || it.targetH > content.H+1e-9 {
			t.Errorf("item %d grew past content: %vx%v", i, it.targetW, it.targetH)
		}
	}
}
