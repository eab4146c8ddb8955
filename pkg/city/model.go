package city

import (
	"fmt"
	"slices"
)

// Metrics are the three sizes of a leaf entity.
type Metrics struct {
	Width  uint16
	Depth  uint16
	Height uint16
}

// Coerce returns m with every zero dimension raised to 1. The packer
// rejects zero-sized rectangles, so every importer coerces first.
func (m Metrics) Coerce() Metrics {
	m.Width = max(m.Width, 1)
	m.Depth = max(m.Depth, 1)
	m.Height = max(m.Height, 1)
	return m
}

// MetricsFromCounts derives building sizes from raw class statistics:
// one unit of width per method, one unit of depth per field, and one unit
// of height per ten bytes of code. Each dimension gets a base unit so that
// an empty class is still a 1x1x1 building; negative counts count as zero.
// Results saturate at 16 bits.
func MetricsFromCounts(methods, fields, codeSize int) Metrics {
	return Metrics{
		Width:  clampUint16(max(methods, 0) + 1),
		Depth:  clampUint16(max(fields, 0) + 1),
		Height: clampUint16(max(codeSize, 0)/10 + 1),
	}
}

func clampUint16(v int) uint16 {
	return uint16(min(max(v, 0), 1<<16-1))
}

// Leaf is a sized entity that never has children.
type Leaf struct {
	Name   string
	Rect   Rect
	Height uint16
}

// NewLeaf creates an unplaced leaf. A leaf is at least one storey tall,
// so a group holding leaves is always taller than an empty one.
func NewLeaf(name string, m Metrics) *Leaf {
	return &Leaf{
		Name:   name,
		Rect:   NewRect(m.Width, m.Depth),
		Height: max(m.Height, 1),
	}
}

// Metrics returns the leaf's sizes.
func (l *Leaf) Metrics() Metrics {
	return Metrics{Width: l.Rect.Width, Depth: l.Rect.Depth, Height: l.Height}
}

// Group is a named container that exclusively owns child groups and
// leaves. Its footprint starts at 1x1 and is overwritten by [Group.Pack].
//
// Child groups are unique by name. Their insertion order is remembered so
// that equal-area siblings are always placed in the same order.
//
// A Group is not safe for concurrent mutation.
type Group struct {
	Name   string
	Rect   Rect
	Leaves []*Leaf

	children map[string]*Group
	order    []string
}

// NewGroup creates an empty 1x1 group.
func NewGroup(name string) *Group {
	return &Group{
		Name:     name,
		Rect:     NewRect(1, 1),
		children: make(map[string]*Group),
	}
}

// Child returns the child group with the given name.
func (g *Group) Child(name string) (*Group, bool) {
	c, ok := g.children[name]
	return c, ok
}

// Children returns the child groups in insertion order. The returned slice
// is a copy; the groups themselves are shared.
func (g *Group) Children() []*Group {
	out := make([]*Group, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.children[name])
	}
	return out
}

// ChildCount returns the number of child groups.
func (g *Group) ChildCount() int { return len(g.order) }

// IsEmpty reports whether g has neither child groups nor leaves.
func (g *Group) IsEmpty() bool { return len(g.order) == 0 && len(g.Leaves) == 0 }

// AddGroup attaches an existing group as a child.
func (g *Group) AddGroup(child *Group) error {
	if _, ok := g.children[child.Name]; ok {
		return fmt.Errorf("%w: %q in %q", ErrDuplicateGroup, child.Name, g.Name)
	}
	g.attach(child)
	return nil
}

// attach records child under its name. The caller guarantees the name is free.
func (g *Group) attach(child *Group) {
	if g.children == nil {
		g.children = make(map[string]*Group)
	}
	g.children[child.Name] = child
	g.order = append(g.order, child.Name)
}

// AddLeaf appends a leaf.
func (g *Group) AddLeaf(l *Leaf) {
	g.Leaves = append(g.Leaves, l)
}

// ensureChild returns the child called name, creating it if needed.
func (g *Group) ensureChild(name string) *Group {
	if c, ok := g.children[name]; ok {
		return c
	}
	c := NewGroup(name)
	g.attach(c)
	return c
}

// LeafNames returns the names of g's own leaves in insertion order.
func (g *Group) LeafNames() []string {
	names := make([]string, len(g.Leaves))
	for i, l := range g.Leaves {
		names[i] = l.Name
	}
	return names
}

// ChildNames returns the names of g's child groups in insertion order.
func (g *Group) ChildNames() []string { return slices.Clone(g.order) }
