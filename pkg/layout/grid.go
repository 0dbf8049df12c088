package layout

import "math"

// gridPlan describes a uniform multi-row arrangement chosen for a batch
// of leaves. Zero rows means no acceptable grid exists and leaves fall
// through to individual bin packing.
type gridPlan struct {
	rows      int
	cols      int
	cellW     float64
	cellH     float64
	itemWidth []float64 // per-item widths, row-major, when values are skewed; nil for uniform
}

// selectGrid searches row counts from two upward for a grid whose cells
// have an acceptable aspect ratio, preferring the row count whose cell
// ratio is closest to the ideal. Grids are only considered when the
// container holds enough leaves to justify uniform treatment and a
// single-row arrangement would produce unreadably narrow cells.
func selectGrid(count int, content Rect, cfg *Config) gridPlan {
	if count < cfg.GridThresholdChildCount || content.W <= 0 || content.H <= 0 {
		return gridPlan{}
	}
	if rowRatio := content.W / float64(count) / content.H; rowRatio >= cfg.GridMinRatio {
		return gridPlan{}
	}

	best := gridPlan{}
	bestDist := math.Inf(1)
	for rows := 2; rows <= 4; rows++ {
		cols := (count + rows - 1) / rows
		cellW := content.W / float64(cols)
		cellH := content.H / float64(rows)
		if cellH <= 0 || cellW <= 0 {
			continue
		}
		ratio := cellW / cellH
		if ratio < cfg.GridMinRatio || ratio > cfg.GridMaxRatio {
			continue
		}
		if dist := math.Abs(ratio - cfg.GridIdealRatio); dist < bestDist {
			bestDist = dist
			best = gridPlan{rows: rows, cols: cols, cellW: cellW, cellH: cellH}
		}
	}
	return best
}

// applyValueWidths replaces uniform cell widths with per-item widths when
// leaf values are strongly skewed (max/min above 3x). Each row's span is
// divided among that row's items in proportion to value, so a large
// function reads larger than a trivial one even inside a grid while every
// row still sums to the width it would have occupied uniformly.
func (g *gridPlan) applyValueWidths(items []*packItem, cfg *Config) {
	if g.rows == 0 || len(items) == 0 {
		return
	}
	minV, maxV := math.Inf(1), 0.0
	for _, it := range items {
		if it.value < minV {
			minV = it.value
		}
		if it.value > maxV {
			maxV = it.value
		}
	}
	if minV <= 0 || maxV/minV <= 3 {
		return
	}

	// Items are laid out row-major in descending value order; a full row
	// spans cols uniform cells, a partial last row spans fewer.
	g.itemWidth = make([]float64, len(items))
	for lo := 0; lo < len(items); lo += g.cols {
		hi := lo + g.cols
		if hi > len(items) {
			hi = len(items)
		}
		var sum float64
		for _, it := range items[lo:hi] {
			sum += it.value
		}
		span := g.cellW * float64(hi-lo)
		for i := lo; i < hi; i++ {
			g.itemWidth[i] = maxf(span*items[i].value/sum, cfg.MinBoxSize)
		}
	}
}

// cellSize returns the target width and height for the item at row-major
// index i under this plan.
func (g *gridPlan) cellSize(i int) (float64, float64) {
	if g.itemWidth != nil && i < len(g.itemWidth) && g.itemWidth[i] > 0 {
		return g.itemWidth[i], g.cellH
	}
	return g.cellW, g.cellH
}
