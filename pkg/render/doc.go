// Package render groups the output formats for a packed city.
//
// Every renderer consumes a [layout.Layout] and never touches the packing
// tree, so a layout read back from JSON renders the same as a fresh one.
//
//   - [plan]: top-down plan view as SVG, PNG or PDF
//   - [nodelink]: the group hierarchy as a Graphviz diagram (DOT or SVG)
//   - [voxel]: a run-length encoded occupancy grid for block-world exporters
//
// [layout.Layout]: github.com/matzehuels/codecity/pkg/layout
// [plan]: github.com/matzehuels/codecity/pkg/render/plan
// [nodelink]: github.com/matzehuels/codecity/pkg/render/nodelink
// [voxel]: github.com/matzehuels/codecity/pkg/render/voxel
package render
