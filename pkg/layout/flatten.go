package layout

import "strings"

// Block is a node placed in absolute coordinates.
//
// Groups are one-unit slabs at the elevation of their tree level. Leaves
// start one unit above their group and rise by their own height.
type Block struct {
	Path   string // names from the root, joined with "/"
	Name   string
	Kind   string
	Level  int // tree depth of the node, root is 0
	X, Y   int // absolute position of the near corner
	Z      int // elevation of the base
	Width  int
	Depth  int
	Height int
}

// Flatten lists every node of l in pre-order with absolute coordinates.
func Flatten(l Layout) []Block {
	var out []Block
	flatten(&out, l.Root, nil, 0, 0, 0)
	return out
}

func flatten(out *[]Block, n Node, parent []string, ox, oy, level int) {
	path := append(parent[:len(parent):len(parent)], n.Name)
	x, y := ox+int(n.X), oy+int(n.Y)

	b := Block{
		Path:   strings.Join(path, "/"),
		Name:   n.Name,
		Kind:   n.Kind,
		Level:  level,
		X:      x,
		Y:      y,
		Z:      level,
		Width:  int(n.Width),
		Depth:  int(n.Depth),
		Height: n.Height,
	}
	if n.IsGroup() {
		b.Height = 1
	}
	*out = append(*out, b)

	for _, c := range n.Children {
		flatten(out, c, path, x, y, level+1)
	}
}
