package layout

// Rect is an axis-aligned rectangle. All coordinates are in user units
// (typically pixels in SVG), relative to the coordinate space of the
// ultimate ancestor for output nodes, or to a container's content area
// for free rectangles.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Area returns the rectangle's area. Degenerate rectangles report zero.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Empty returns true if the rectangle has no usable extent.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether r fully contains o, within eps tolerance.
func (r Rect) Contains(o Rect) bool {
	return r.X <= o.X+eps && r.Y <= o.Y+eps &&
		r.Right() >= o.Right()-eps && r.Bottom() >= o.Bottom()-eps
}

// Overlaps reports whether r and o share interior area (touching edges do
// not count).
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right()-eps && r.Right() > o.X+eps &&
		r.Y < o.Bottom()-eps && r.Bottom() > o.Y+eps
}

// Intersect returns the intersection of r and o. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	x := maxf(r.X, o.X)
	y := maxf(r.Y, o.Y)
	return Rect{
		X: x,
		Y: y,
		W: minf(r.Right(), o.Right()) - x,
		H: minf(r.Bottom(), o.Bottom()) - y,
	}
}

const eps = 1e-6

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
