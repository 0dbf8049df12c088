// Package layout implements the hierarchical 2D packing engine at the heart
// of NestMap.
//
// Given an input tree (pkg/tree) and a pixel viewport, [Build] assigns every
// node a non-overlapping rectangle, decides whether it is rendered as
// readable text, a plain box, or omitted, and reports which children could
// not be placed. The result is a fresh tree of [Node] values; nothing on the
// input tree is mutated and no state survives between calls.
//
// # Algorithm
//
// For each container the engine reserves a header band, then packs the
// viable (value > 0) children into the remaining content area:
//
//  1. Child containers receive pinned target sizes proportional to their
//     value share of the content area ([pinContainers]).
//  2. Loose leaves are arranged by the grid selector, which trades a naive
//     single row for a 2–4 row grid when the per-cell aspect ratio would be
//     unreadable ([selectGrid]).
//  3. The space-utilization optimizer expands targets when the packed
//     density would leave excessive whitespace ([optimizeTargets]).
//  4. A free-rectangle bin packer places each item using a configurable
//     scoring heuristic, with an adaptive fallback that squeezes items into
//     remaining space before giving up ([packer]).
//
// Placement failure is never an error: unplaceable children are counted in
// [Node.HiddenChildren] and the pass continues. The only error [Build]
// returns is an invalid [Config], detected up front and outside the hot
// recursion path.
//
// # Purity and concurrency
//
// A layout pass is a pure function of (tree, width, height, config):
// identical inputs yield bit-identical rectangles. Passes over different
// trees may run concurrently without synchronization; passes over the same
// tree must not share Node instances from a previous pass.
package layout
