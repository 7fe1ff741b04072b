package cli

import (
	"github.com/spf13/cobra"

	erio "github.com/matzehuels/erwire/pkg/io"
)

// convertCommand creates the convert command, which rewrites a diagram in
// another encoding. Edges without ids get their generated ids written out.
func (c *CLI) convertCommand() *cobra.Command {
	var stdin string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a diagram between JSON, YAML and TOML",
		Long: `Convert a diagram between JSON, YAML and TOML. Formats are taken from the
file extensions. The diagram is validated on the way.

Use "-" as the input to read the diagram from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDiagram(cmd.InOrStdin(), args[0], erio.Format(stdin))
			if err != nil {
				return err
			}
			if err := erio.ExportDiagram(d, args[1]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Converted %s, %s", plural(len(d.Nodes), "entity", "entities"), plural(len(d.Edges), "relationship", "relationships"))
			printFile(out, args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&stdin, "stdin-format", string(erio.FormatJSON), "diagram format when reading stdin: json, yaml, toml")
	return cmd
}
