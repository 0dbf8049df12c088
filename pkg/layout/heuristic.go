package layout

// scorer ranks candidate free rectangles for an item of a given target
// size. Lower scores are better. Implementations must only be called with
// rectangles the item actually fits into.
type scorer interface {
	score(free Rect, w, h float64) float64
}

// shortSideFit scores by the smaller leftover margin. Tight short sides
// keep thin strips from fragmenting the pool.
type shortSideFit struct{}

func (shortSideFit) score(free Rect, w, h float64) float64 {
	return minf(free.W-w, free.H-h)
}

// areaFit scores by leftover area, using the short side as a secondary
// criterion so equal-area candidates prefer the snugger rectangle.
type areaFit struct{}

func (areaFit) score(free Rect, w, h float64) float64 {
	leftover := free.Area() - w*h
	return leftover + minf(free.W-w, free.H-h)/1e6
}

// longSideFit scores by the larger leftover margin.
type longSideFit struct{}

func (longSideFit) score(free Rect, w, h float64) float64 {
	return maxf(free.W-w, free.H-h)
}

// scorerFor maps a configured heuristic to its implementation. Config
// validation guarantees the heuristic is known.
func scorerFor(h Heuristic) scorer {
	switch h {
	case BestAreaFit:
		return areaFit{}
	case BestLongSideFit:
		return longSideFit{}
	default:
		return shortSideFit{}
	}
}
