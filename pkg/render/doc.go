// Package render turns layout trees into viewable artifacts.
//
// Three sinks are provided: nested-box SVG (the primary visualization),
// JSON (the raw layout tree for downstream tooling), and Graphviz DOT
// with optional SVG/PNG rasterization for a structural node-link view.
// All sinks are deterministic: identical layout trees produce identical
// bytes.
package render
