package city

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Pack sizes every group in the subtree rooted at g and positions every
// child inside its parent. Child groups are packed before their parent so
// that they can be treated as fixed rectangles.
//
// Packing is meant to run once per tree. Packing again re-seeds each pass
// from the previously computed sizes, which yields a larger but still
// valid layout.
func (g *Group) Pack() error {
	for _, c := range g.Children() {
		if err := c.Pack(); err != nil {
			return err
		}
	}
	return g.packSelf()
}

// PackParallel is Pack with sibling subtrees packed concurrently. At most
// limit subtrees run at once per group; limit <= 0 means no limit. The
// result is identical to Pack.
func (g *Group) PackParallel(ctx context.Context, limit int) error {
	if kids := g.Children(); len(kids) > 0 {
		eg, egCtx := errgroup.WithContext(ctx)
		if limit > 0 {
			eg.SetLimit(limit)
		}
		for _, c := range kids {
			eg.Go(func() error {
				return c.PackParallel(egCtx, limit)
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.packSelf()
}

// packSelf places g's direct children, groups first and then leaves, each
// set sorted by area descending. Equal areas keep insertion order.
func (g *Group) packSelf() error {
	state := NewPackState(g.Rect)

	groups := g.Children()
	slices.SortStableFunc(groups, func(a, b *Group) int {
		return cmp.Compare(b.Rect.Area(), a.Rect.Area())
	})
	for _, c := range groups {
		if err := state.Place(&c.Rect); err != nil {
			return fmt.Errorf("pack %s: group %s: %w", g.Name, c.Name, err)
		}
	}

	leaves := slices.Clone(g.Leaves)
	slices.SortStableFunc(leaves, func(a, b *Leaf) int {
		return cmp.Compare(b.Rect.Area(), a.Rect.Area())
	})
	for _, l := range leaves {
		if err := state.Place(&l.Rect); err != nil {
			return fmt.Errorf("pack %s: leaf %s: %w", g.Name, l.Name, err)
		}
	}

	g.Rect.Width, g.Rect.Depth = state.Size()
	return nil
}
