package layout

import "math"

// optimizeTargets inspects how much of the content area the planned item
// targets would cover and expands them when coverage is poor, so that
// sparse containers do not render as a few tiny boxes floating in empty
// space.
//
// Two tiers apply. Below the low threshold, items smaller than the mean
// area are widened by a bounded factor, which helps mixed batches without
// disturbing already-large items. Below the critical threshold the whole
// batch is scaled up proportionally in area, preserving each item's
// aspect ratio; this tier applies regardless of batch size, since even a
// pair of items covering a fraction of a large container reads as a
// rendering bug. A lone item is never expanded, so a single small leaf
// keeps its preferred size. Expanded targets are capped at the content
// dimensions and the packer still has the final word on whether they
// fit.
func optimizeTargets(items []*packItem, content Rect, cfg *Config) {
	if len(items) < 2 {
		return
	}
	area := content.Area()
	if area <= 0 {
		return
	}
	var used float64
	for _, it := range items {
		used += it.area()
	}
	u := used / area
	if u >= cfg.UtilizationLowThreshold || u <= 0 {
		return
	}

	if u < cfg.UtilizationCriticalThreshold {
		// Scale every item so the batch approaches critical coverage.
		factor := minf(3, 1/u)
		scale := math.Sqrt(factor)
		for _, it := range items {
			it.targetW = minf(it.targetW*scale, content.W)
			it.targetH = minf(it.targetH*scale, content.H)
		}
		return
	}

	if len(items) <= 2 {
		return
	}
	mean := used / float64(len(items))
	widen := minf(3, math.Sqrt(1/u))
	for _, it := range items {
		if it.area() < mean {
			it.targetW = minf(it.targetW*widen, content.W)
		}
	}
}
