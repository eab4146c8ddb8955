// Package nodelink renders the group hierarchy of a city as a node-link
// diagram.
//
// # Overview
//
// The plan view shows where things are; the node-link view shows what
// contains what. Groups appear as folder boxes, leaves as plain boxes, and
// edges point from a group to its members.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: labels include footprint and height
//   - GroupsOnly: leaves are left out, which keeps large cities readable
//   - MaxDepth: groups deeper than this are collapsed (0 means unlimited)
//
// # DOT Format
//
// The [ToDOT] function produces plain Graphviz DOT source that can be fed
// to any Graphviz tool. [RenderSVG] runs the bundled WebAssembly build of
// Graphviz through github.com/goccy/go-graphviz, so no system install is
// needed.
package nodelink
