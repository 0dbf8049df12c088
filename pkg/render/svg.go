package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/nestmap/pkg/layout"
)

// DefaultPalette maps node categories to fill colors. Unknown categories
// fall back to the "leaf" entry.
var DefaultPalette = map[string]string{
	"module":  "#dbeafe",
	"package": "#e0e7ff",
	"file":    "#ede9fe",
	"type":    "#fce7f3",
	"func":    "#dcfce7",
	"block":   "#fef9c3",
	"leaf":    "#f1f5f9",
}

const svgCSS = `
    .box { stroke: #475569; stroke-width: 1; }
    .box:hover { stroke-width: 2; }
    .label { font-family: %s; fill: #1e293b; }
    .badge { font-family: %s; fill: #991b1b; }`

// SVGOption configures nested-box SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette    map[string]string
	fontFamily string
	fontSize   float64
	headerSize float64
}

// WithPalette overrides the category color palette.
func WithPalette(p map[string]string) SVGOption {
	return func(r *svgRenderer) { r.palette = p }
}

// WithFontFamily sets the label font stack.
func WithFontFamily(f string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = f }
}

// WithFontSize sets the leaf label font size in user units.
func WithFontSize(s float64) SVGOption {
	return func(r *svgRenderer) { r.fontSize = s }
}

// RenderSVG draws a layout tree as nested boxes. Containers get a header
// label along their top edge, text-mode leaves get a centered label,
// box-mode nodes are drawn without text, and hidden children are flagged
// with a badge in the parent's corner.
func RenderSVG(root *layout.Node, opts ...SVGOption) []byte {
	r := &svgRenderer{
		palette:    DefaultPalette,
		fontFamily: "ui-monospace, monospace",
		fontSize:   11,
		headerSize: 12,
	}
	for _, opt := range opts {
		opt(r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		root.Rect.W, root.Rect.H, root.Rect.W, root.Rect.H)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", fmt.Sprintf(svgCSS, r.fontFamily, r.fontFamily))

	r.renderNode(&buf, root)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n *layout.Node) {
	if n.Mode == layout.ModeNone {
		return
	}

	fmt.Fprintf(buf, `  <g id="node-%s">`+"\n", escapeXML(n.ID))
	fmt.Fprintf(buf, `    <rect class="box" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="%s"/>`+"\n",
		n.Rect.X, n.Rect.Y, n.Rect.W, n.Rect.H, r.fill(n.Category))

	if n.Mode == layout.ModeText {
		if len(n.Children) > 0 || n.HasHiddenChildren {
			// Header label along the top edge.
			fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" font-size="%.1f">%s</text>`+"\n",
				n.Rect.X+4, n.Rect.Y+r.headerSize, r.headerSize, escapeXML(n.DisplayLabel()))
		} else {
			fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
				n.Rect.X+n.Rect.W/2, n.Rect.Y+n.Rect.H/2, r.fontSize, escapeXML(n.DisplayLabel()))
		}
	}
	if n.HasHiddenChildren {
		fmt.Fprintf(buf, `    <text class="badge" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="end">+%d</text>`+"\n",
			n.Rect.Right()-3, n.Rect.Bottom()-3, r.fontSize-1, n.HiddenChildren)
	}

	for _, c := range n.Children {
		r.renderNode(buf, c)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) fill(category string) string {
	if c, ok := r.palette[category]; ok {
		return c
	}
	if c, ok := r.palette["leaf"]; ok {
		return c
	}
	return "#f1f5f9"
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string { return xmlEscaper.Replace(s) }
