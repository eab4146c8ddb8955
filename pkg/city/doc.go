// Package city arranges a hierarchy of sized entities into nested,
// non-overlapping rectangular footprints.
//
// The package models a "code city": leaves are buildings with a fixed
// width, depth and height, and groups are districts that own buildings and
// sub-districts. Packing is bottom-up. Every group packs its children first
// and only then becomes a fixed-size rectangle that its parent can place.
//
// # Building the Tree
//
// Leaves are inserted by their full hierarchical path. Intermediate groups
// are created on demand:
//
//	root := city.NewGroup(city.RootName)
//	_ = root.Insert([]string{"com", "acme", "Server"}, city.Metrics{Width: 4, Depth: 3, Height: 12})
//
// [Build] does the same for a batch of [Entity] values whose names are split
// with a separator such as "/" or ".".
//
// # Packing
//
// [Group.Pack] runs a single-pass greedy shelf heuristic. Siblings are
// sorted by area (largest first, stable for equal areas) and placed one by
// one through a [PackState]. When an item does not fit on the current
// shelf the container grows along its shorter side, which keeps the result
// roughly square. Every shelf keeps a one-unit border to its neighbours.
//
// Positions are local: a node's PosW/PosD is relative to its parent's
// origin. Consumers that need absolute coordinates sum positions from the
// root down (see pkg/layout.Flatten).
//
// [Group.PackParallel] produces the same result but packs independent
// sibling subtrees concurrently.
//
// # Heights
//
// A leaf's height is its metric height. A group is one level taller than
// its tallest child, so an empty group has height 1.
package city
