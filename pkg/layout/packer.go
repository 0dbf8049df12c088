package layout

// packer places rectangles into a content area using a free-rectangle
// pool and a pluggable fit heuristic. One packer instance serves one
// container's packing pass and is discarded afterwards.
type packer struct {
	content Rect
	pool    *freePool
	placed  []Rect
	score   scorer
	cfg     *Config
}

func newPacker(content Rect, cfg *Config) *packer {
	return &packer{
		content: content,
		pool:    newFreePool(content.W, content.H, cfg.MinUsableResidualWidth, cfg.MinUsableResidualHeight),
		score:   scorerFor(cfg.PackingHeuristic),
		cfg:     cfg,
	}
}

// place finds a position for a w×h rectangle. It first tries an exact
// fit scored by the configured heuristic; when no free rectangle can
// hold the full size it falls back to adaptive placement, shrinking the
// rectangle into the best remaining space. The returned rectangle is
// relative to the content origin; ok is false when nothing viable
// remains.
func (p *packer) place(w, h float64) (Rect, bool) {
	if w <= 0 || h <= 0 {
		return Rect{}, false
	}
	if i, ok := p.findPlacement(w, h); ok {
		fr := p.pool.rects[i]
		r := Rect{X: fr.X, Y: fr.Y, W: w, H: h}
		p.commit(i, r)
		return r, true
	}
	return p.fallback(w, h)
}

// findPlacement returns the index of the free rectangle minimizing the
// heuristic score among those large enough for w×h.
func (p *packer) findPlacement(w, h float64) (int, bool) {
	best := -1
	bestScore := 0.0
	for i, fr := range p.pool.rects {
		if w > fr.W+eps || h > fr.H+eps {
			continue
		}
		s := p.score.score(fr, w, h)
		if best < 0 || s < bestScore {
			best = i
			bestScore = s
		}
	}
	return best, best >= 0
}

// fallback shrinks the request into whichever free rectangle yields the
// most effective area. Width may be squeezed to almost the full free
// width; height never exceeds the free height; the squeezed shape is
// kept below the fallback aspect ceiling so desperation placements stay
// recognizable as boxes.
func (p *packer) fallback(w, h float64) (Rect, bool) {
	best := -1
	bestScore := 0.0
	var bestW, bestH float64
	for i, fr := range p.pool.rects {
		cw := minf(w, p.cfg.FallbackWidthFraction*fr.W)
		ch := minf(h, fr.H)
		if cw/ch > p.cfg.FallbackMaxAspectRatio {
			cw = ch * p.cfg.FallbackMaxAspectRatio
		}
		if cw < p.cfg.MinBoxSize || ch < p.cfg.MinBoxSize {
			continue
		}
		// Free area weighted by the utilization the candidate would
		// achieve, which reduces to the used area.
		s := cw * ch
		if best < 0 || s > bestScore {
			best = i
			bestScore = s
			bestW, bestH = cw, ch
		}
	}
	if best < 0 {
		return Rect{}, false
	}
	fr := p.pool.rects[best]
	r := Rect{X: fr.X, Y: fr.Y, W: bestW, H: bestH}
	p.commit(best, r)
	return r, true
}

// commit removes the chosen free rectangle, adds its guillotine
// residuals, and carves the placement out of every other overlapping
// free rectangle so the pool never advertises occupied space. The right
// residual spans the full free height; the bottom residual spans the
// placed width, widening to the whole content area when the right
// residual is too narrow to keep.
func (p *packer) commit(i int, placed Rect) {
	fr := p.pool.rects[i]
	p.pool.remove(i)

	right := Rect{X: placed.Right(), Y: fr.Y, W: fr.Right() - placed.Right(), H: fr.H}
	bottom := Rect{X: fr.X, Y: placed.Bottom(), W: placed.W, H: fr.Bottom() - placed.Bottom()}
	if p.pool.usable(right) {
		p.pool.add(right)
		p.pool.add(bottom)
	} else {
		bottom.X = 0
		bottom.W = p.content.W
		// The widened residual may run under earlier placements.
		p.pool.addClipped(bottom, p.placed)
	}

	p.pool.carve(placed)
	p.pool.prune()
	p.placed = append(p.placed, placed)
}

// reclaim returns the unused portion of an allocation to the pool after
// the child laid out inside it turned out smaller. The placed record
// shrinks to the used extent so later overlap carving stays accurate.
func (p *packer) reclaim(alloc, used Rect) {
	if used.W+eps >= alloc.W && used.H+eps >= alloc.H {
		return
	}
	for i, r := range p.placed {
		if r == alloc {
			p.placed[i] = used
			break
		}
	}
	for _, strip := range subtract(alloc, used) {
		p.pool.add(strip)
	}
	p.pool.prune()
}

// utilization reports the fraction of the content area covered by
// committed placements.
func (p *packer) utilization() float64 {
	area := p.content.Area()
	if area <= 0 {
		return 0
	}
	var used float64
	for _, r := range p.placed {
		used += r.Area()
	}
	return used / area
}
