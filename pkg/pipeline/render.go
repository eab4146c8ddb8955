package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/codecity/pkg/errors"
	"github.com/matzehuels/codecity/pkg/layout"
	"github.com/matzehuels/codecity/pkg/observability"
	"github.com/matzehuels/codecity/pkg/render/nodelink"
	"github.com/matzehuels/codecity/pkg/render/plan"
	"github.com/matzehuels/codecity/pkg/render/voxel"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, errors.Classify(err)
		}
		data, err := RenderFormat(ctx, l, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact.
func RenderFormat(ctx context.Context, l layout.Layout, format string, opts Options) (data []byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err) }()

	switch format {
	case FormatJSON:
		data, err = layout.Marshal(l)
	case FormatSVG:
		data = plan.RenderSVG(l, planOptions(opts)...)
	case FormatPNG:
		data, err = plan.RenderPNG(l, planOptions(opts)...)
	case FormatPDF:
		data, err = plan.RenderPDF(l, planOptions(opts)...)
	case FormatDOT:
		data = []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed}))
	case FormatVoxel:
		data, err = renderVoxel(l)
	default:
		return nil, ValidateFormat(format)
	}

	if err != nil {
		return nil, errors.Wrap(errors.CodeOf(err), err, "render %s", format)
	}
	return data, nil
}

func planOptions(opts Options) []plan.Option {
	out := []plan.Option{plan.WithScale(opts.Scale)}
	if opts.Labels {
		out = append(out, plan.WithLabels())
	}
	return out
}

func renderVoxel(l layout.Layout) ([]byte, error) {
	grid, err := voxel.Build(l)
	if stderrors.Is(err, voxel.ErrTooLarge) {
		return nil, errors.Wrap(errors.ErrCodeLayoutOverflow, err, "city too large for a voxel grid")
	}
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := grid.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
