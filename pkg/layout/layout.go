package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/codecity/pkg/city"
)

// Node kinds.
const (
	KindGroup = "group"
	KindLeaf  = "leaf"
)

// =============================================================================
// Layout - Serialized City
// =============================================================================

// Layout is a packed city ready for storage or rendering.
type Layout struct {
	Name      string `json:"name" bson:"name"`
	Separator string `json:"separator,omitempty" bson:"separator,omitempty"`

	// Root footprint and summary
	Width  uint16 `json:"width" bson:"width"`
	Depth  uint16 `json:"depth" bson:"depth"`
	Height int    `json:"height" bson:"height"`
	Groups int    `json:"groups" bson:"groups"`
	Leaves int    `json:"leaves" bson:"leaves"`

	Root Node `json:"root" bson:"root"`
}

// Node is one group or leaf. X and Y are relative to the parent.
type Node struct {
	Name     string `json:"name" bson:"name"`
	Kind     string `json:"kind" bson:"kind"`
	Width    uint16 `json:"width" bson:"width"`
	Depth    uint16 `json:"depth" bson:"depth"`
	X        uint16 `json:"x" bson:"x"`
	Y        uint16 `json:"y" bson:"y"`
	Height   int    `json:"height" bson:"height"`
	Children []Node `json:"children,omitempty" bson:"children,omitempty"`
}

// IsGroup reports whether n is a group.
func (n *Node) IsGroup() bool { return n.Kind == KindGroup }

// FromGroup converts a packed tree into a Layout.
func FromGroup(root *city.Group, sep string) Layout {
	s := root.Stats()
	return Layout{
		Name:      root.Name,
		Separator: sep,
		Width:     root.Rect.Width,
		Depth:     root.Rect.Depth,
		Height:    s.Height,
		Groups:    s.Groups,
		Leaves:    s.Leaves,
		Root:      groupNode(root),
	}
}

func groupNode(g *city.Group) Node {
	n := Node{
		Name:   g.Name,
		Kind:   KindGroup,
		Width:  g.Rect.Width,
		Depth:  g.Rect.Depth,
		X:      g.Rect.PosW,
		Y:      g.Rect.PosD,
		Height: g.Height(),
	}
	kids := g.Children()
	if len(kids)+len(g.Leaves) > 0 {
		n.Children = make([]Node, 0, len(kids)+len(g.Leaves))
	}
	for _, c := range kids {
		n.Children = append(n.Children, groupNode(c))
	}
	for _, l := range g.Leaves {
		n.Children = append(n.Children, Node{
			Name:   l.Name,
			Kind:   KindLeaf,
			Width:  l.Rect.Width,
			Depth:  l.Rect.Depth,
			X:      l.Rect.PosW,
			Y:      l.Rect.PosD,
			Height: int(l.Height),
		})
	}
	return n
}

// ToGroup rebuilds the tree, positions included, so that a stored layout
// can be rendered or verified without packing again.
func (l Layout) ToGroup() (*city.Group, error) {
	return l.Root.toGroup()
}

func (n Node) toGroup() (*city.Group, error) {
	if !n.IsGroup() {
		return nil, fmt.Errorf("node %q: kind %q is not a group", n.Name, n.Kind)
	}
	g := city.NewGroup(n.Name)
	g.Rect = city.Rect{Width: n.Width, Depth: n.Depth, PosW: n.X, PosD: n.Y}

	for _, c := range n.Children {
		switch c.Kind {
		case KindGroup:
			child, err := c.toGroup()
			if err != nil {
				return nil, err
			}
			if err := g.AddGroup(child); err != nil {
				return nil, err
			}
		case KindLeaf:
			if c.Height < 0 || c.Height > 1<<16-1 {
				return nil, fmt.Errorf("leaf %q: height %d: %w", c.Name, c.Height, city.ErrInvalidDimensions)
			}
			g.AddLeaf(&city.Leaf{
				Name:   c.Name,
				Rect:   city.Rect{Width: c.Width, Depth: c.Depth, PosW: c.X, PosD: c.Y},
				Height: uint16(c.Height),
			})
		default:
			return nil, fmt.Errorf("node %q: unknown kind %q", c.Name, c.Kind)
		}
	}
	return g, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout.
// The root must be a group with a non-empty footprint.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the structural fields every consumer relies on.
func (l Layout) Validate() error {
	if !l.Root.IsGroup() {
		return fmt.Errorf("layout root must be a group, got kind %q", l.Root.Kind)
	}
	if l.Root.Width == 0 || l.Root.Depth == 0 {
		return fmt.Errorf("layout root has empty footprint %dx%d", l.Root.Width, l.Root.Depth)
	}
	return nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	return Unmarshal(data)
}
