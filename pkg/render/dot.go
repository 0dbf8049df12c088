package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nestmap/pkg/errors"
	"github.com/matzehuels/nestmap/pkg/layout"
)

// ToDOT converts a layout tree to Graphviz DOT for a structural
// node-link view: containers become clusters, leaves become boxes. Only
// rendered nodes appear; hidden children are summarized on their parent.
func ToDOT(root *layout.Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph nestmap {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	writeDOTNode(&buf, root, 1)

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n *layout.Node, depth int) {
	if n.Mode == layout.ModeNone {
		return
	}
	indent := strings.Repeat("  ", depth)

	if len(n.Children) == 0 {
		fmt.Fprintf(buf, "%s%q [label=%q];\n", indent, n.ID, dotLabel(n))
		return
	}

	fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, n.ID)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, dotLabel(n))
	fmt.Fprintf(buf, "%s  style=rounded;\n", indent)
	for _, c := range n.Children {
		writeDOTNode(buf, c, depth+1)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func dotLabel(n *layout.Node) string {
	label := n.DisplayLabel()
	if n.HasHiddenChildren {
		label = fmt.Sprintf("%s (+%d hidden)", label, n.HiddenChildren)
	}
	return label
}

// RenderDOTSVG rasterizes a DOT string to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderDOTPNG rasterizes a DOT string to PNG using Graphviz.
func RenderDOTPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
