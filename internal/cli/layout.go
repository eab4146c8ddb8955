package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cityio "github.com/matzehuels/codecity/pkg/io"
	"github.com/matzehuels/codecity/pkg/layout"
	"github.com/matzehuels/codecity/pkg/pipeline"
)

// layoutSuffix marks files written by the layout command.
const layoutSuffix = ".layout.json"

// layoutFlags are the pack options shared by commands that accept an
// entity list.
type layoutFlags struct {
	root    string
	limit   int
	refresh bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "name of the root district (default: _root_)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "concurrent subtrees per district with --parallel (0 = unbounded)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached layouts")
}

func (f *layoutFlags) apply(opts *pipeline.Options) {
	opts.Root = f.root
	opts.Limit = f.limit
	opts.Refresh = f.refresh
}

// layoutCommand creates the layout command for packing an entity list.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [entities]",
		Short: "Pack an entity list into a city layout",
		Long: `Pack an entity list into a city layout.

The input is a .json, .toml or .city file listing entities by their full
hierarchical name. The output is a layout.json file holding every district
and building with its footprint and position, ready for 'render'.

Results are cached, keyed by the normalized input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(&opts)
			return c.runLayout(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout packs the input and writes the layout file.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options) error {
	runner := c.newRunner(ctx)
	defer runner.Close()

	l, cached, err := c.loadLayout(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	if output == "" {
		output = trimInputExt(input) + layoutSuffix
	}
	if err := layout.WriteFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(l, cached)
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}

// readInput imports an entity list, applying the configured separator to
// documents that do not declare their own.
func (c *CLI) readInput(path string) (*cityio.Input, error) {
	in, err := cityio.Import(path, cityio.WithSeparator(c.config().Separator))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return in, nil
}

// loadLayout returns the layout described by path: layout files are read
// as they are, anything else is imported and packed. The boolean reports a
// cache hit.
func (c *CLI) loadLayout(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (layout.Layout, bool, error) {
	if isLayoutFile(path) {
		l, err := layout.ReadFile(path)
		if err != nil {
			return layout.Layout{}, false, fmt.Errorf("load layout %s: %w", path, err)
		}
		return l, false, nil
	}

	in, err := c.readInput(path)
	if err != nil {
		return layout.Layout{}, false, err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %d entities...", len(in.Entities)))
	spinner.Start()

	l, _, cached, err := runner.PackWithCacheInfo(ctx, in, opts)
	if err != nil {
		spinner.StopWithError("Packing failed")
		return layout.Layout{}, false, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("packed %d entities", len(in.Entities)))
	return l, cached, nil
}

func isLayoutFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), layoutSuffix)
}

// trimInputExt strips the layout suffix or the plain extension.
func trimInputExt(path string) string {
	if isLayoutFile(path) {
		return path[:len(path)-len(layoutSuffix)]
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
