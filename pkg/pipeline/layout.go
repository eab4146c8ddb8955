package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/codecity/pkg/errors"
	cityio "github.com/matzehuels/codecity/pkg/io"
	"github.com/matzehuels/codecity/pkg/layout"
	"github.com/matzehuels/codecity/pkg/observability"
)

// Pack builds the entity tree from in and packs it. The input is
// normalized in place; opts.Separator overrides the input's separator when
// the input has none.
func Pack(ctx context.Context, in *cityio.Input, opts Options) (l layout.Layout, err error) {
	opts.SetDefaults()
	hooks := observability.Pipeline()
	hooks.OnPackStart(ctx, len(in.Entities))
	start := time.Now()
	defer func() {
		hooks.OnPackComplete(ctx, observability.PackStats{
			Groups: l.Groups,
			Leaves: l.Leaves,
			Width:  int(l.Width),
			Depth:  int(l.Depth),
			Height: l.Height,
		}, time.Since(start), err)
	}()

	if in.Separator == "" {
		in.Separator = opts.Separator
	}
	if err := in.Normalize(); err != nil {
		return layout.Layout{}, err
	}
	root, err := in.Build()
	if err != nil {
		return layout.Layout{}, err
	}
	root.Name = opts.Root

	if opts.Parallel {
		err = root.PackParallel(ctx, opts.Limit)
	} else {
		err = root.Pack()
	}
	if err != nil {
		return layout.Layout{}, errors.Classify(err)
	}

	return layout.FromGroup(root, in.Separator), nil
}
