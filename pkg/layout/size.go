package layout

import (
	"math"

	"github.com/matzehuels/nestmap/pkg/tree"
)

// packItem is the ephemeral unit handed to the bin packer: a child plus
// the target size it should be placed at. Items exist only for the
// duration of one container's packing pass.
type packItem struct {
	node      *tree.Node
	targetW   float64
	targetH   float64
	value     float64
	container bool
}

func (it *packItem) area() float64 { return it.targetW * it.targetH }

// pinContainers computes pinned target sizes for a container's child
// containers. Each child receives an area share proportional to its value,
// shaped toward a square and capped by the content dimensions. Pinned
// sizes are fixed before packing begins and never renegotiated.
func pinContainers(containers []*tree.Node, content Rect, cfg *Config) []*packItem {
	var totalValue float64
	for _, c := range containers {
		totalValue += c.Value
	}
	if totalValue <= 0 {
		return nil
	}

	items := make([]*packItem, 0, len(containers))
	for _, c := range containers {
		area := c.Value / totalValue * content.Area()
		side := math.Sqrt(area)

		w, h := side, side
		if w > content.W {
			w = content.W
			h = area / w
		}
		if h > content.H {
			h = content.H
			w = minf(area/h, content.W)
		}

		w = clampTarget(w, content.W, cfg)
		h = clampTarget(h, content.H, cfg)

		items = append(items, &packItem{
			node:      c,
			targetW:   w,
			targetH:   h,
			value:     c.Value,
			container: true,
		})
	}
	return items
}

// clampTarget caps a target dimension at the content extent while keeping
// the minimum box size as a floor. Targets below the minimum box size
// would be placed and then rendered as nothing; keeping the floor makes
// too-small content fail placement instead, which is reported as hidden.
func clampTarget(dim, contentDim float64, cfg *Config) float64 {
	return maxf(minf(dim, contentDim), cfg.MinBoxSize)
}

// sizeLeaf computes a leaf's final width and height inside its allocated
// rectangle. wantW/wantH carry the parent's target for the leaf (grid cell
// or optimizer-expanded size); zero means "no target", in which case the
// preferred size is attempted. The result never exceeds the allocation;
// minimum text dimensions act as hard floors violated only when the
// allocation itself is smaller; and any size beyond the preferred one has
// its aspect ratio clamped to the configured bounds, readability winning
// over space consumption.
func sizeLeaf(alloc Rect, wantW, wantH float64, cfg *Config) (float64, float64) {
	if wantW <= 0 {
		wantW = cfg.PrefWidth
	}
	if wantH <= 0 {
		wantH = cfg.PrefHeight
	}

	w := minf(alloc.W, wantW)
	h := minf(alloc.H, wantH)

	// Hard floors.
	w = maxf(w, minf(cfg.MinTextWidth, alloc.W))
	h = maxf(h, minf(cfg.MinTextHeight, alloc.H))

	if w > cfg.PrefWidth || h > cfg.PrefHeight {
		if ratio := w / h; ratio > cfg.MaxAspectRatio {
			w = h * cfg.MaxAspectRatio
		} else if ratio < cfg.MinAspectRatio {
			h = w / cfg.MinAspectRatio
		}
	}
	return w, h
}
