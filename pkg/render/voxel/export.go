package voxel

import (
	"encoding/json"
	"fmt"
	"io"
)

// Run is a horizontal stretch of equal cells within one row.
type Run struct {
	Y     int   `json:"y"`
	X     int   `json:"x"`
	Len   int   `json:"len"`
	Value uint8 `json:"v"`
}

type document struct {
	Width  int     `json:"width"`
	Depth  int     `json:"depth"`
	Height int     `json:"height"`
	Layers [][]Run `json:"layers"`
}

// Runs returns the non-empty runs of z layer in row-major order.
func (g *Grid) Runs(z int) []Run {
	var runs []Run
	for y := 0; y < g.Depth; y++ {
		row := g.cells[g.index(0, y, z) : g.index(0, y, z)+g.Width]
		for x := 0; x < len(row); {
			v := row[x]
			end := x + 1
			for end < len(row) && row[end] == v {
				end++
			}
			if v != Empty {
				runs = append(runs, Run{Y: y, X: x, Len: end - x, Value: v})
			}
			x = end
		}
	}
	return runs
}

// WriteJSON writes the grid as run-length encoded layers.
func (g *Grid) WriteJSON(w io.Writer) error {
	doc := document{Width: g.Width, Depth: g.Depth, Height: g.Height, Layers: make([][]Run, g.Height)}
	for z := range doc.Layers {
		doc.Layers[z] = g.Runs(z)
		if doc.Layers[z] == nil {
			doc.Layers[z] = []Run{}
		}
	}
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode voxels: %w", err)
	}
	return nil
}

// ReadJSON decodes a grid written by [Grid.WriteJSON].
func ReadJSON(r io.Reader) (*Grid, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode voxels: %w", err)
	}
	if doc.Width < 0 || doc.Depth < 0 || doc.Height < 0 || len(doc.Layers) != doc.Height {
		return nil, fmt.Errorf("decode voxels: inconsistent header %dx%dx%d with %d layers",
			doc.Width, doc.Depth, doc.Height, len(doc.Layers))
	}
	g := New(doc.Width, doc.Depth, doc.Height)
	for z, runs := range doc.Layers {
		for _, r := range runs {
			if r.Len <= 0 || !g.In(r.X, r.Y, z) || !g.In(r.X+r.Len-1, r.Y, z) {
				return nil, fmt.Errorf("decode voxels: run %+v outside layer %d", r, z)
			}
			for x := r.X; x < r.X+r.Len; x++ {
				g.cells[g.index(x, r.Y, z)] = r.Value
			}
		}
	}
	return g, nil
}
