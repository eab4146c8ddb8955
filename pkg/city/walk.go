package city

import "slices"

// WalkFunc is called for every group visited by [Group.Walk]. path holds
// the names from the walk's starting group down to g, inclusive. Returning
// false skips g's subtree.
type WalkFunc func(path []string, g *Group, level int) bool

// Walk visits g and its descendants in pre-order. Children are visited in
// insertion order.
func (g *Group) Walk(fn WalkFunc) {
	g.walk(nil, 0, fn)
}

func (g *Group) walk(parent []string, level int, fn WalkFunc) {
	path := append(slices.Clip(parent), g.Name)
	if !fn(path, g, level) {
		return
	}
	for _, c := range g.Children() {
		c.walk(path, level+1, fn)
	}
}

// Stats summarizes a tree.
type Stats struct {
	Groups   int    // number of groups including the root
	Leaves   int    // number of leaves
	MaxDepth int    // deepest group level, root is 0
	Width    uint16 // root footprint width
	Depth    uint16 // root footprint depth
	Height   int    // root height
	LeafArea uint64 // summed leaf footprint area
}

// Density returns the share of the root footprint covered by leaves.
func (s Stats) Density() float64 {
	total := uint64(s.Width) * uint64(s.Depth)
	if total == 0 {
		return 0
	}
	return float64(s.LeafArea) / float64(total)
}

// Stats computes summary statistics for the subtree rooted at g.
func (g *Group) Stats() Stats {
	s := Stats{Width: g.Rect.Width, Depth: g.Rect.Depth, Height: g.Height()}
	g.Walk(func(_ []string, n *Group, level int) bool {
		s.Groups++
		s.Leaves += len(n.Leaves)
		s.MaxDepth = max(s.MaxDepth, level)
		for _, l := range n.Leaves {
			s.LeafArea += l.Rect.Area()
		}
		return true
	})
	return s
}
