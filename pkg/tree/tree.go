package tree

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/nestmap/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node categories. A node's category describes what the node was parsed
// from; the layout engine only distinguishes containers (nodes with
// children) from leaves.
const (
	CategoryModule  = "module"
	CategoryPackage = "package"
	CategoryFile    = "file"
	CategoryType    = "type"
	CategoryFunc    = "func"
	CategoryBlock   = "block"
	CategoryLeaf    = "leaf"
)

// =============================================================================
// Node - Input Tree Node
// =============================================================================

// Node is a single node of the input tree. Nodes are read-only from the
// layout engine's point of view; a layout pass never mutates them.
type Node struct {
	ID       string  `json:"id" bson:"id"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Category string  `json:"category,omitempty" bson:"category,omitempty"`
	Value    float64 `json:"value" bson:"value"` // Relative importance, >= 0
	Children []*Node `json:"children,omitempty" bson:"children,omitempty"`

	// Opaque metadata, passed through to layout nodes unmodified.
	Source string         `json:"source,omitempty" bson:"source,omitempty"` // Source text excerpt
	Span   *Span          `json:"span,omitempty" bson:"span,omitempty"`     // Source location
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Span locates a node in its originating source file.
type Span struct {
	File      string `json:"file,omitempty" bson:"file,omitempty"`
	StartLine int    `json:"start_line,omitempty" bson:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty" bson:"end_line,omitempty"`
}

// Lines returns the number of source lines the span covers.
func (s *Span) Lines() int {
	if s == nil || s.EndLine < s.StartLine {
		return 0
	}
	return s.EndLine - s.StartLine + 1
}

// IsContainer returns true if the node has at least one child.
func (n *Node) IsContainer() bool { return len(n.Children) > 0 }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Count returns the total number of nodes in the subtree rooted at n,
// including n itself.
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

// TotalValue returns the sum of child values. Children with negative
// values are ignored, matching the engine's defensive treatment of
// malformed input.
func (n *Node) TotalValue() float64 {
	var sum float64
	for _, c := range n.Children {
		if c != nil && c.Value > 0 {
			sum += c.Value
		}
	}
	return sum
}

// Validate checks structural soundness of the subtree: non-empty IDs and
// unique IDs among siblings. Negative values are allowed here (the engine
// excludes them from packing) but NaN values are rejected.
func (n *Node) Validate() error {
	if n == nil {
		return errors.New(errors.ErrCodeInvalidTree, "nil node")
	}
	if n.ID == "" {
		return errors.New(errors.ErrCodeInvalidTree, "node with empty id")
	}
	if n.Value != n.Value { // NaN
		return errors.New(errors.ErrCodeInvalidTree, "node %s: value is NaN", n.ID)
	}
	seen := make(map[string]struct{}, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			return errors.New(errors.ErrCodeInvalidTree, "node %s: nil child", n.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return errors.New(errors.ErrCodeInvalidTree, "node %s: duplicate child id %s", n.ID, c.ID)
		}
		seen[c.ID] = struct{}{}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a tree to pretty-printed JSON bytes.
func Marshal(root *Node) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}

// Unmarshal deserializes JSON bytes into a tree and validates it.
func Unmarshal(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "unmarshal tree")
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return &root, nil
}

// WriteFile writes a tree to a JSON file.
func WriteFile(root *Node, path string) error {
	data, err := Marshal(root)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a tree from a JSON file.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return Unmarshal(data)
}
