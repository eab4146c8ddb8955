package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codecity/pkg/pipeline"
)

// renderCommand creates the render command for generating city artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		formats  string
		labels   bool
		detailed bool
		flags    layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a city to SVG, PNG, PDF, DOT or voxels",
		Long: `Render a city to one or more output formats.

The input is either a layout file written by 'layout' (*.layout.json) or an
entity list, which is packed first.

Formats:
  json    the packed layout
  svg     top-down plan
  png     top-down plan, rasterized
  pdf     top-down plan, vector
  dot     the district hierarchy as a Graphviz graph
  voxel   a voxel grid of every district slab and building`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(&opts)
			opts.Formats = parseFormats(formats)
			opts.Labels = labels
			opts.Detailed = detailed
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s), comma-separated: "+strings.Join(pipeline.Formats, ", ")+" (default: svg)")
	cmd.Flags().Float64("scale", pipeline.DefaultScale, "pixels per layout unit for svg, png and pdf")
	cmd.Flags().BoolVar(&labels, "labels", false, "add building names as svg tooltips")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show sizes and positions (dot)")
	flags.register(cmd)

	return cmd
}

// runRender loads or packs the input and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options) error {
	runner := c.newRunner(ctx)
	defer runner.Close()

	l, _, err := c.loadLayout(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths := outputPaths(output, input, opts.Formats)
	for _, format := range opts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.Logger.Debug("wrote artifact", "format", format, "bytes", len(artifacts[format]), "path", path)
	}

	printSuccess("Rendered %d format(s)", len(opts.Formats))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(l, cached)
	return nil
}

// parseFormats parses a comma-separated format list. Empty means svg.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPaths assigns a file to every format. A single format with an
// explicit output is written there verbatim; otherwise files are named
// base path plus format extension. JSON artifacts are layouts and get the
// layout suffix, so they never overwrite a JSON entity list.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + fileExtension(f)
	}
	return paths
}

// basePath derives the base output path. Without an output it strips the
// input's extension; otherwise it strips a known format extension from the
// output, preferring the longest match.
func basePath(output, input string) string {
	if output == "" {
		return trimInputExt(input)
	}
	exts := []string{layoutSuffix}
	for _, f := range pipeline.Formats {
		exts = append(exts, pipeline.Extension(f))
	}
	slices.SortFunc(exts, func(a, b string) int { return len(b) - len(a) })
	for _, ext := range exts {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func fileExtension(format string) string {
	if format == pipeline.FormatJSON {
		return layoutSuffix
	}
	return pipeline.Extension(format)
}
