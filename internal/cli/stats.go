package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codecity/pkg/layout"
	"github.com/matzehuels/codecity/pkg/pipeline"
)

// districtRow summarizes one district for the stats table.
type districtRow struct {
	Name      string
	Width     uint16
	Depth     uint16
	Height    int
	Districts int // nested districts, the district itself excluded
	Buildings int
	Area      uint64 // summed building footprint
}

func (r districtRow) density() float64 {
	total := uint64(r.Width) * uint64(r.Depth)
	if total == 0 {
		return 0
	}
	return float64(r.Area) / float64(total)
}

// summarize walks n and totals its subtree.
func summarize(n layout.Node) districtRow {
	row := districtRow{Name: n.Name, Width: n.Width, Depth: n.Depth, Height: n.Height}
	for _, c := range n.Children {
		if c.IsGroup() {
			sub := summarize(c)
			row.Districts += sub.Districts + 1
			row.Buildings += sub.Buildings
			row.Area += sub.Area
			continue
		}
		row.Buildings++
		row.Area += uint64(c.Width) * uint64(c.Depth)
	}
	return row
}

// districtRows returns the root's direct districts, largest footprint first.
func districtRows(l layout.Layout) []districtRow {
	var rows []districtRow
	for _, c := range l.Root.Children {
		if c.IsGroup() {
			rows = append(rows, summarize(c))
		}
	}
	slices.SortStableFunc(rows, func(a, b districtRow) int {
		return cmp.Compare(uint64(b.Width)*uint64(b.Depth), uint64(a.Width)*uint64(a.Depth))
	})
	return rows
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		top   int
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Summarize and verify a city",
		Long: `Summarize a city and verify that no two districts or buildings overlap.

The input is a layout file or an entity list, which is packed first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(&opts)
			return c.runStats(cmd.Context(), args[0], top, opts)
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "number of top-level districts to list (0 = all)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runStats(ctx context.Context, input string, top int, opts pipeline.Options) error {
	runner := c.newRunner(ctx)
	defer runner.Close()

	l, cached, err := c.loadLayout(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	root := summarize(l.Root)
	printKeyValue("City", l.Name)
	printKeyValue("Footprint", fmt.Sprintf("%dx%d", l.Width, l.Depth))
	printKeyValue("Height", strconv.Itoa(l.Height))
	printKeyValue("Districts", strconv.Itoa(l.Groups))
	printKeyValue("Buildings", strconv.Itoa(l.Leaves))
	printKeyValue("Density", fmt.Sprintf("%.1f%%", root.density()*100))

	rows := districtRows(l)
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	if len(rows) > 0 {
		printNewline()
		fmt.Fprintln(stdout, districtTable(rows))
	}

	printNewline()
	if err := verifyLayout(l); err != nil {
		printError("Verification failed: %v", err)
		return err
	}
	printSuccess("No overlaps")
	printStats(l, cached)
	return nil
}

// verifyLayout rebuilds the tree and checks the packing invariants.
func verifyLayout(l layout.Layout) error {
	g, err := l.ToGroup()
	if err != nil {
		return err
	}
	return g.Verify()
}

func districtTable(rows []districtRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(colorWhite)
	numStyle := lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.Name,
			fmt.Sprintf("%dx%d", r.Width, r.Depth),
			strconv.Itoa(r.Height),
			strconv.Itoa(r.Districts),
			strconv.Itoa(r.Buildings),
			fmt.Sprintf("%.0f%%", r.density()*100),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("District", "Size", "Height", "Nested", "Buildings", "Density").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return nameStyle.Padding(0, 1)
			default:
				return numStyle.Padding(0, 1)
			}
		}).
		Render()
}
