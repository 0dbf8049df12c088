package layout

import (
	"math"
	"sort"

	"github.com/matzehuels/nestmap/pkg/errors"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// ============================================================================
// Entry point
// ============================================================================

// Build lays out a tree inside a width×height viewport and returns a fresh
// layout tree. The input is never mutated and no state survives between
// calls, so concurrent Build invocations over the same input are safe.
//
// Layout infeasibility is not an error: children that cannot be placed are
// reported through HiddenChildren on their parent. Build fails only on
// invalid configuration or a degenerate viewport.
func Build(root *tree.Node, width, height float64, cfg *Config) (*Node, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout: nil root node")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || math.IsNaN(width) || math.IsNaN(height) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout: viewport must have positive dimensions")
	}

	e := &engine{cfg: cfg}
	out := e.layout(root, Rect{W: width, H: height}, 0, 0, 0)
	return out, nil
}

// Stats summarizes a layout pass for logging and observability.
type Stats struct {
	Nodes  int `json:"nodes"`
	Hidden int `json:"hidden"`
}

// Summarize walks a layout tree and gathers pass statistics.
func Summarize(root *Node) Stats {
	var s Stats
	root.Walk(func(n *Node) bool {
		s.Nodes++
		s.Hidden += n.HiddenChildren
		return true
	})
	return s
}

// ============================================================================
// Recursive engine
// ============================================================================

// engine holds the per-pass configuration. It carries no mutable state of
// its own; every container gets a fresh packer and fresh item slices.
type engine struct {
	cfg *Config
}

// layout assigns a rectangle and render mode to n and recurses into its
// viable children. alloc is the space the parent committed to this node
// in absolute coordinates; wantW/wantH carry the parent's target size for
// a leaf (zero means no target). The returned node's Rect never exceeds
// alloc.
func (e *engine) layout(n *tree.Node, alloc Rect, wantW, wantH float64, depth int) *Node {
	out := &Node{
		ID:       n.ID,
		Label:    n.Label,
		Category: n.Category,
		Source:   n.Source,
		Span:     n.Span,
		Meta:     n.Meta,
	}

	// Too small to draw anything: stop before touching children.
	if alloc.W < e.cfg.MinBoxSize || alloc.H < e.cfg.MinBoxSize {
		out.Rect = alloc
		out.Mode = ModeNone
		return out
	}

	viable := viableChildren(n)
	if len(viable) == 0 {
		w, h := sizeLeaf(alloc, wantW, wantH, e.cfg)
		out.Rect = Rect{X: alloc.X, Y: alloc.Y, W: w, H: h}
		out.Mode = e.renderMode(w, h)
		return out
	}

	out.Rect = alloc
	out.Mode = e.renderMode(alloc.W, alloc.H)

	header := e.headerHeight(alloc, depth)
	content := contentArea(alloc, header, e.cfg.Padding)
	if content.W < e.cfg.MinBoxSize || content.H < e.cfg.MinBoxSize {
		// No room for any child; the container itself still renders.
		out.HasHiddenChildren = true
		out.HiddenChildren = len(viable)
		out.DepthConstrained = true
		e.cfg.diag("container.suppressed", map[string]any{"id": n.ID, "depth": depth, "hidden": len(viable)})
		return out
	}

	e.packChildren(out, viable, content, depth)
	return out
}

// packChildren plans target sizes for every viable child, packs them into
// the content area in priority order, and recurses into each committed
// placement.
func (e *engine) packChildren(out *Node, viable []*tree.Node, content Rect, depth int) {
	var containers, leaves []*tree.Node
	for _, c := range viable {
		if c.IsContainer() {
			containers = append(containers, c)
		} else {
			leaves = append(leaves, c)
		}
	}

	items := pinContainers(containers, content, e.cfg)

	grid := selectGrid(len(leaves), content, e.cfg)
	leafItems := make([]*packItem, 0, len(leaves))
	for _, l := range leaves {
		leafItems = append(leafItems, &packItem{node: l, value: l.Value})
	}
	// Grid cells are assigned row-major in descending value order so the
	// value-skew row widths line up with their rows.
	sort.SliceStable(leafItems, func(i, j int) bool {
		return leafItems[i].value > leafItems[j].value
	})
	if grid.rows > 0 {
		grid.applyValueWidths(leafItems, e.cfg)
		for i, it := range leafItems {
			it.targetW, it.targetH = grid.cellSize(i)
		}
		out.GridRows = grid.rows
	} else {
		local := Rect{W: content.W, H: content.H}
		for _, it := range leafItems {
			it.targetW, it.targetH = sizeLeaf(local, 0, 0, e.cfg)
		}
	}
	items = append(items, leafItems...)

	optimizeTargets(items, content, e.cfg)

	// Pinned containers pack first, largest area first; then leaves by
	// area, value, and original position so ordering is deterministic.
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := items[order[a]], items[order[b]]
		if ia.container != ib.container {
			return ia.container
		}
		if ia.area() != ib.area() {
			return ia.area() > ib.area()
		}
		if ia.value != ib.value {
			return ia.value > ib.value
		}
		return order[a] < order[b]
	})

	p := newPacker(content, e.cfg)
	for _, idx := range order {
		it := items[idx]
		local, ok := p.place(it.targetW, it.targetH)
		if !ok {
			out.HiddenChildren++
			e.cfg.diag("child.hidden", map[string]any{"parent": out.ID, "id": it.node.ID})
			continue
		}
		childAlloc := Rect{X: content.X + local.X, Y: content.Y + local.Y, W: local.W, H: local.H}
		child := e.layout(it.node, childAlloc, it.targetW, it.targetH, depth+1)
		if child.Rect.W+eps < childAlloc.W || child.Rect.H+eps < childAlloc.H {
			used := Rect{X: local.X, Y: local.Y, W: child.Rect.W, H: child.Rect.H}
			p.reclaim(local, used)
		}
		out.Children = append(out.Children, child)
	}

	if out.HiddenChildren > 0 {
		out.HasHiddenChildren = true
	}
	if len(out.Children) == 0 {
		out.DepthConstrained = true
	}
	e.cfg.diag("container.packed", map[string]any{
		"id":          out.ID,
		"depth":       depth,
		"placed":      len(out.Children),
		"hidden":      out.HiddenChildren,
		"utilization": p.utilization(),
	})
}

// ============================================================================
// Sizing helpers
// ============================================================================

// headerHeight returns the header band height for a container at the given
// depth. The band shrinks geometrically with depth and never consumes more
// than the configured fraction of the allocation.
func (e *engine) headerHeight(alloc Rect, depth int) float64 {
	h := e.cfg.HeaderHeight * math.Pow(e.cfg.HeaderDepthScale, float64(depth))
	return minf(h, e.cfg.HeaderMaxFraction*alloc.H)
}

// contentArea insets an allocation by the header band and padding.
func contentArea(alloc Rect, header, pad float64) Rect {
	return Rect{
		X: alloc.X + pad,
		Y: alloc.Y + header + pad,
		W: alloc.W - 2*pad,
		H: alloc.H - header - 2*pad,
	}
}

// renderMode picks text, box or none from the final dimensions.
func (e *engine) renderMode(w, h float64) RenderMode {
	switch {
	case w >= e.cfg.MinTextWidth && h >= e.cfg.MinTextHeight:
		return ModeText
	case w >= e.cfg.MinBoxSize && h >= e.cfg.MinBoxSize:
		return ModeBox
	default:
		return ModeNone
	}
}

// viableChildren filters out children that cannot participate in layout.
// Non-positive and NaN values are excluded entirely rather than treated
// as errors.
func viableChildren(n *tree.Node) []*tree.Node {
	out := make([]*tree.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c == nil || c.Value <= 0 || math.IsNaN(c.Value) {
			continue
		}
		out = append(out, c)
	}
	return out
}
