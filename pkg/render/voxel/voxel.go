// Package voxel turns a packed city into a three-dimensional occupancy grid.
//
// Group footprints become one-voxel slabs at the elevation of their tree
// level, and every leaf becomes a solid column of its height standing on its
// group's slab. The grid is sized to the root footprint times the root
// height, which always has room for the tallest column.
//
// Grids are meant for block-world exporters and 3-D printing pipelines.
// [Grid.WriteJSON] emits a compact run-length encoding of each z layer.
package voxel

import (
	"errors"
	"fmt"

	"github.com/matzehuels/codecity/pkg/layout"
)

// MaxCells bounds the grid so that a huge city cannot exhaust memory.
const MaxCells = 1 << 26

// ErrTooLarge is returned by [Build] when the grid would exceed [MaxCells].
var ErrTooLarge = errors.New("voxel grid too large")

// Cell values.
const (
	Empty uint8 = iota
	Slab        // part of a group slab
	Solid       // part of a leaf column
)

// Grid is a dense width x depth x height voxel array.
type Grid struct {
	Width, Depth, Height int
	cells                []uint8
}

// New allocates an empty grid.
func New(width, depth, height int) *Grid {
	return &Grid{
		Width:  width,
		Depth:  depth,
		Height: height,
		cells:  make([]uint8, width*depth*height),
	}
}

func (g *Grid) index(x, y, z int) int {
	return (z*g.Depth+y)*g.Width + x
}

// In reports whether (x, y, z) lies inside the grid.
func (g *Grid) In(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.Width && y < g.Depth && z < g.Height
}

// At returns the cell value at (x, y, z), or Empty outside the grid.
func (g *Grid) At(x, y, z int) uint8 {
	if !g.In(x, y, z) {
		return Empty
	}
	return g.cells[g.index(x, y, z)]
}

// Set writes v at (x, y, z). It reports false if the point is outside.
func (g *Grid) Set(x, y, z int, v uint8) bool {
	if !g.In(x, y, z) {
		return false
	}
	g.cells[g.index(x, y, z)] = v
	return true
}

// Count returns the number of non-empty cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c != Empty {
			n++
		}
	}
	return n
}

// Layer returns a copy of z layer as rows of length Width.
func (g *Grid) Layer(z int) [][]uint8 {
	rows := make([][]uint8, g.Depth)
	for y := range rows {
		start := g.index(0, y, z)
		rows[y] = append([]uint8(nil), g.cells[start:start+g.Width]...)
	}
	return rows
}

// Layers returns every z layer from the ground up.
func (g *Grid) Layers() [][][]uint8 {
	out := make([][][]uint8, g.Height)
	for z := range out {
		out[z] = g.Layer(z)
	}
	return out
}

// Build fills a grid from a layout. It fails if a block reaches outside
// the grid, which means the layout was not produced by the packer.
func Build(l layout.Layout) (*Grid, error) {
	w, d, h := int(l.Root.Width), int(l.Root.Depth), max(l.Height, l.Root.Height, 1)
	if cells := int64(w) * int64(d) * int64(h); cells > MaxCells {
		return nil, fmt.Errorf("%w: %dx%dx%d is %d cells, limit %d", ErrTooLarge, w, d, h, cells, MaxCells)
	}
	g := New(w, d, h)
	for _, b := range layout.Flatten(l) {
		v := Slab
		if b.Kind == layout.KindLeaf {
			v = Solid
		}
		if b.Height == 0 {
			continue
		}
		if !g.In(b.X, b.Y, b.Z) || !g.In(b.X+b.Width-1, b.Y+b.Depth-1, b.Z+b.Height-1) {
			return nil, fmt.Errorf("block %s at (%d,%d,%d) size %dx%dx%d exceeds grid %dx%dx%d",
				b.Path, b.X, b.Y, b.Z, b.Width, b.Depth, b.Height, g.Width, g.Depth, g.Height)
		}
		for z := b.Z; z < b.Z+b.Height; z++ {
			for y := b.Y; y < b.Y+b.Depth; y++ {
				for x := b.X; x < b.X+b.Width; x++ {
					g.cells[g.index(x, y, z)] = v
				}
			}
		}
	}
	return g, nil
}
