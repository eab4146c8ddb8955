package city

import (
	"fmt"
	"strings"
)

const (
	// RootName is the name given to the root group by [Build].
	RootName = "_root_"

	// DefaultSeparator splits JVM-style internal class names
	// ("com/acme/Server").
	DefaultSeparator = "/"
)

// Entity is a leaf described by its full hierarchical name.
type Entity struct {
	Name string
	Metrics
}

// SplitPath splits a full name into path segments. Empty segments caused
// by leading, trailing or doubled separators are dropped. An empty sep
// falls back to [DefaultSeparator].
func SplitPath(name, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}
	parts := strings.Split(name, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Insert walks path from g, creating missing groups, and appends a leaf
// named by the last segment. Sizes must already be coerced.
func (g *Group) Insert(path []string, m Metrics) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidPath)
	}
	if m.Width == 0 || m.Depth == 0 {
		return fmt.Errorf("%w: %s is %dx%d", ErrInvalidDimensions, strings.Join(path, "/"), m.Width, m.Depth)
	}
	for _, seg := range path {
		if seg == "" {
			return fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, strings.Join(path, "/"))
		}
	}

	cur := g
	for _, seg := range path[:len(path)-1] {
		cur = cur.ensureChild(seg)
	}
	cur.AddLeaf(NewLeaf(path[len(path)-1], m))
	return nil
}

// InsertName splits name with sep and inserts it.
func (g *Group) InsertName(name, sep string, m Metrics) error {
	if err := g.Insert(SplitPath(name, sep), m); err != nil {
		return fmt.Errorf("insert %q: %w", name, err)
	}
	return nil
}

// Build creates a root group and inserts every entity, coercing degenerate
// sizes on the way.
func Build(entities []Entity, sep string) (*Group, error) {
	root := NewGroup(RootName)
	for _, e := range entities {
		if err := root.InsertName(e.Name, sep, e.Metrics.Coerce()); err != nil {
			return nil, err
		}
	}
	return root, nil
}
