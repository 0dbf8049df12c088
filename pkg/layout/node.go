package layout

import "github.com/matzehuels/nestmap/pkg/tree"

// RenderMode says how a node should be drawn.
type RenderMode string

// Render modes.
const (
	// ModeText means the node is large enough for a readable label.
	ModeText RenderMode = "text"
	// ModeBox means the node is drawn as a colored marker without text.
	ModeBox RenderMode = "box"
	// ModeNone means the node is not drawn at all.
	ModeNone RenderMode = "none"
)

// Node is the engine's output: one layout node per input node that was
// rendered. Nodes form a fresh tree built bottom-up on every pass; they are
// never mutated after construction and never shared between passes.
type Node struct {
	ID       string     `json:"id" bson:"id"`
	Label    string     `json:"label,omitempty" bson:"label,omitempty"`
	Category string     `json:"category,omitempty" bson:"category,omitempty"`
	Rect     Rect       `json:"rect" bson:"rect"`
	Mode     RenderMode `json:"mode" bson:"mode"`
	Children []*Node    `json:"children,omitempty" bson:"children,omitempty"`

	// HiddenChildren counts viable input children that could not be
	// placed. HasHiddenChildren is its boolean shadow for renderers.
	HasHiddenChildren bool `json:"has_hidden_children,omitempty" bson:"has_hidden_children,omitempty"`
	HiddenChildren    int  `json:"hidden_children,omitempty" bson:"hidden_children,omitempty"`

	// DepthConstrained is set when a container's interior had to be
	// suppressed entirely (no content area, or every child hidden).
	DepthConstrained bool `json:"depth_constrained,omitempty" bson:"depth_constrained,omitempty"`

	// GridRows reports the row count the grid selector chose for this
	// container's loose leaves (0 when the container had none).
	GridRows int `json:"grid_rows,omitempty" bson:"grid_rows,omitempty"`

	// Opaque metadata carried over from the input node.
	Source string         `json:"source,omitempty" bson:"source,omitempty"`
	Span   *tree.Span     `json:"span,omitempty" bson:"span,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Count returns the total number of layout nodes in the subtree, including n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += c.Count()
	}
	return count
}

// Walk visits n and every descendant in depth-first order. Walking stops
// early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
