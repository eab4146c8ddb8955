package city

// Height returns one plus the tallest of g's child groups and leaves.
// An empty group has height 1. The value is computed on every call.
func (g *Group) Height() int {
	tallest := 0
	for _, c := range g.children {
		tallest = max(tallest, c.Height())
	}
	for _, l := range g.Leaves {
		tallest = max(tallest, int(l.Height))
	}
	return 1 + tallest
}
