package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cityio "github.com/matzehuels/codecity/pkg/io"
)

// convertCommand creates the convert command, which rewrites an entity
// list in another input format.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert an entity list between .json, .toml and .city",
		Long: `Convert an entity list between the supported input formats.

Both formats are chosen by file extension. Names are validated and
degenerate sizes coerced on the way, so the output is always a clean input.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(args[0], args[1])
		},
	}
}

func (c *CLI) runConvert(input, output string) error {
	in, err := c.readInput(input)
	if err != nil {
		return err
	}
	if err := cityio.Export(in, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Converted %d entities", len(in.Entities))
	printFile(output)
	return nil
}
