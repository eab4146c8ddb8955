package city

import (
	"fmt"
	"strings"
)

// Verify checks the packing invariants on every group of a packed tree:
// each child lies inside its parent's border and no two siblings come
// closer than one unit. It returns the first violation found.
func (g *Group) Verify() error {
	var err error
	g.Walk(func(path []string, n *Group, _ int) bool {
		err = n.verifySelf()
		if err != nil {
			err = fmt.Errorf("%s: %w", strings.Join(path, "/"), err)
		}
		return err == nil
	})
	return err
}

type named struct {
	name string
	rect Rect
}

func (g *Group) verifySelf() error {
	items := make([]named, 0, g.ChildCount()+len(g.Leaves))
	for _, c := range g.Children() {
		items = append(items, named{c.Name, c.Rect})
	}
	for _, l := range g.Leaves {
		items = append(items, named{l.Name, l.Rect})
	}

	for i, a := range items {
		if a.rect.PosW < 1 || a.rect.PosD < 1 ||
			int(a.rect.PosW)+int(a.rect.Width) > int(g.Rect.Width)-1 ||
			int(a.rect.PosD)+int(a.rect.Depth) > int(g.Rect.Depth)-1 {
			return fmt.Errorf("%w: %s %s in %dx%d", ErrOutOfBounds, a.name, a.rect, g.Rect.Width, g.Rect.Depth)
		}
		for _, b := range items[:i] {
			if a.rect.Overlaps(b.rect, 1) {
				return fmt.Errorf("%w: %s %s and %s %s", ErrOverlap, a.name, a.rect, b.name, b.rect)
			}
		}
	}
	return nil
}
