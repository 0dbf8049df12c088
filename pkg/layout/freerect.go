package layout

// freePool owns the free rectangles of a single container's packing pass.
// All coordinates are relative to the container's content area. The pool
// is created fresh for every container and discarded when its pass ends.
type freePool struct {
	rects []Rect
	// Residuals narrower or shorter than these are discarded rather than
	// retained as unusable slivers.
	minW, minH float64
}

// newFreePool returns a pool holding one free rectangle spanning the whole
// content area.
func newFreePool(w, h, minUsableW, minUsableH float64) *freePool {
	p := &freePool{minW: minUsableW, minH: minUsableH}
	if w > 0 && h > 0 {
		p.rects = append(p.rects, Rect{W: w, H: h})
	}
	return p
}

// usable reports whether a rectangle is worth keeping in the pool.
func (p *freePool) usable(r Rect) bool {
	return r.W >= p.minW && r.H >= p.minH
}

// add inserts a free rectangle, discarding slivers.
func (p *freePool) add(r Rect) {
	if p.usable(r) {
		p.rects = append(p.rects, r)
	}
}

// addClipped subtracts every occupied rectangle from r and inserts the
// surviving pieces. Used for residuals that may extend over already-placed
// items (full-width bottom extension, space reclamation).
func (p *freePool) addClipped(r Rect, occupied []Rect) {
	pieces := []Rect{r}
	for _, occ := range occupied {
		var next []Rect
		for _, piece := range pieces {
			next = append(next, subtract(piece, occ)...)
		}
		pieces = next
	}
	for _, piece := range pieces {
		p.add(piece)
	}
}

// remove deletes the rectangle at index i.
func (p *freePool) remove(i int) {
	p.rects = append(p.rects[:i], p.rects[i+1:]...)
}

// carve subtracts a placed rectangle from every overlapping free
// rectangle, splitting each into up to four residual strips. This keeps
// overlapping free rectangles (a full-width extension, reclaimed space)
// consistent with the committed placement.
func (p *freePool) carve(placed Rect) {
	var next []Rect
	for _, r := range p.rects {
		if !r.Overlaps(placed) {
			next = append(next, r)
			continue
		}
		for _, piece := range subtract(r, placed) {
			if p.usable(piece) {
				next = append(next, piece)
			}
		}
	}
	p.rects = next
}

// prune removes any free rectangle fully contained within another. Called
// after every commit to bound pool growth.
func (p *freePool) prune() {
	if len(p.rects) <= 1 {
		return
	}
	kept := make([]Rect, 0, len(p.rects))
	for i, a := range p.rects {
		contained := false
		for j, b := range p.rects {
			if i != j && b.Contains(a) {
				// Identical rectangles keep the first occurrence only.
				if !a.Contains(b) || j < i {
					contained = true
					break
				}
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	p.rects = kept
}

// subtract returns the parts of base not covered by cut: up to four
// strips (left, right, top, bottom). If the rectangles do not overlap,
// base is returned unchanged.
func subtract(base, cut Rect) []Rect {
	if !base.Overlaps(cut) {
		return []Rect{base}
	}

	var out []Rect
	if cut.X > base.X+eps {
		out = append(out, Rect{X: base.X, Y: base.Y, W: cut.X - base.X, H: base.H})
	}
	if cut.Right() < base.Right()-eps {
		out = append(out, Rect{X: cut.Right(), Y: base.Y, W: base.Right() - cut.Right(), H: base.H})
	}
	if cut.Y > base.Y+eps {
		out = append(out, Rect{X: base.X, Y: base.Y, W: base.W, H: cut.Y - base.Y})
	}
	if cut.Bottom() < base.Bottom()-eps {
		out = append(out, Rect{X: base.X, Y: cut.Bottom(), W: base.W, H: base.Bottom() - cut.Bottom()})
	}
	return out
}
