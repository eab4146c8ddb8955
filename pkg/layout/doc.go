// Package layout defines the serialized form of a packed code city.
//
// A [Layout] mirrors the [city.Group] tree: every [Node] carries its size,
// its position relative to its parent, and its height. Child groups come
// before leaves, each in insertion order, which is the order the packer
// resolves ties in.
//
// Layouts are the interchange format between the CLI, the HTTP API, the
// cache and the layout store, so every field carries both json and bson
// tags.
//
// # Absolute Coordinates
//
// Positions in a Layout are local. [Flatten] turns the tree into a flat
// list of [Block] values with absolute coordinates: a node's absolute
// position is the sum of the local positions from the root down. Each tree
// level adds one unit of elevation, and leaves stand on top of their
// group's slab.
package layout
