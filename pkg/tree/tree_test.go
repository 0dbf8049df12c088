package tree

import (
	"testing"

	"github.com/matzehuels/nestmap/pkg/errors"
)

func sample() *Node {
	return &Node{
		ID:       "root",
		Category: CategoryPackage,
		Value:    10,
		Children: []*Node{
			{ID: "a", Category: CategoryFunc, Value: 6, Span: &Span{File: "a.go", StartLine: 1, EndLine: 6}},
			{ID: "b", Category: CategoryFunc, Value: 4},
			{ID: "skip", Category: CategoryFunc, Value: 0},
		},
	}
}

func TestCount(t *testing.T) {
	if got := sample().Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	var nilNode *Node
	if got := nilNode.Count(); got != 0 {
		t.Errorf("Count() on nil = %d, want 0", got)
	}
}

func TestTotalValue(t *testing.T) {
	root := sample()
	root.Children = append(root.Children, &Node{ID: "neg", Value: -3})
	if got := root.TotalValue(); got != 10 {
		t.Errorf("TotalValue() = %v, want 10 (zero and negative excluded)", got)
	}
}

func TestSpanLines(t *testing.T) {
	tests := []struct {
		name string
		span *Span
		want int
	}{
		{"nil span", nil, 0},
		{"single line", &Span{StartLine: 3, EndLine: 3}, 1},
		{"multi line", &Span{StartLine: 10, EndLine: 14}, 5},
		{"inverted", &Span{StartLine: 5, EndLine: 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Lines(); got != tt.want {
				t.Errorf("Lines() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := sample().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	dup := sample()
	dup.Children[1].ID = "a"
	if err := dup.Validate(); err == nil {
		t.Error("Validate() should reject duplicate sibling ids")
	}

	empty := sample()
	empty.Children[0].ID = ""
	if err := empty.Validate(); err == nil {
		t.Error("Validate() should reject empty ids")
	}
}

func TestValidateNilChild(t *testing.T) {
	root := sample()
	root.Children = append(root.Children, nil)
	err := root.Validate()
	if err == nil {
		t.Fatal("Validate() should reject nil children")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("Validate() code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidTree)
	}
}

func TestValidateErrorCode(t *testing.T) {
	dup := sample()
	dup.Children[1].ID = "a"
	if err := dup.Validate(); !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("Validate() code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidTree)
	}
}

func TestUnmarshalNullChild(t *testing.T) {
	root, err := Unmarshal([]byte(`{"id":"root","value":1,"children":[null]}`))
	if err == nil {
		t.Fatal("Unmarshal() should reject null children")
	}
	if root != nil {
		t.Error("Unmarshal() should return a nil tree on error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("Unmarshal() code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidTree)
	}
}

func TestNilChildrenCounted(t *testing.T) {
	root := sample()
	root.Children = append(root.Children, nil)
	if got := root.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4 (nil children excluded)", got)
	}
	if got := root.TotalValue(); got != 10 {
		t.Errorf("TotalValue() = %v, want 10 (nil children excluded)", got)
	}
}

func TestRoundTrip(t *testing.T) {
	root := sample()
	data, err := Marshal(root)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if back.ID != root.ID || len(back.Children) != len(root.Children) {
		t.Errorf("round trip mismatch: got %s/%d children", back.ID, len(back.Children))
	}
	if back.Children[0].Span == nil || back.Children[0].Span.EndLine != 6 {
		t.Error("round trip should preserve spans")
	}
}

func TestDisplayLabel(t *testing.T) {
	n := &Node{ID: "pkg/layout", Label: "layout"}
	if n.DisplayLabel() != "layout" {
		t.Errorf("DisplayLabel() = %q, want %q", n.DisplayLabel(), "layout")
	}
	n.Label = ""
	if n.DisplayLabel() != "pkg/layout" {
		t.Errorf("DisplayLabel() = %q, want %q", n.DisplayLabel(), "pkg/layout")
	}
}
