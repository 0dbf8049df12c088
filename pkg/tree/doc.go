// Package tree defines the input node model consumed by the layout engine.
//
// A tree describes a parsed code structure: every node carries an identifier,
// a category (package, file, func, ...), a non-negative value expressing
// relative importance, and an ordered list of children. Source text and
// location metadata are opaque to the layout engine and passed through to
// the output unmodified.
//
// The JSON format is the canonical serialization used for files, the HTTP
// server, and the layout store. It is designed for round-trip fidelity:
// import → layout → export → re-import produces identical trees.
package tree
