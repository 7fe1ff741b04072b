package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erwire/pkg/diagram"
	erio "github.com/matzehuels/erwire/pkg/io"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	edge    string // route a single edge
	noHops  bool   // skip crossing detection
	asJSON  bool   // print geometry as JSON instead of a summary
	noCache bool   // bypass the cache
	stdin   string // format of a diagram read from stdin
}

// routeCommand creates the route command, which computes connector geometry
// and prints one summary line per connector.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route <file>",
		Short: "Compute connector geometry for a diagram",
		Long: `Compute connector geometry for every relationship of a diagram (or one,
with --edge) and print a summary per connector: resolved ends, relationship,
path points, hop arcs and notation symbols.

Use "-" as the file to read the diagram from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.edge, "edge", "e", "", "route only this edge id")
	cmd.Flags().BoolVar(&opts.noHops, "no-hops", false, "do not insert hop arcs at crossings")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the geometry as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the geometry cache")
	cmd.Flags().StringVar(&opts.stdin, "stdin-format", string(erio.FormatJSON), "diagram format when reading stdin: json, yaml, toml")

	return cmd
}

func (c *CLI) runRoute(cmd *cobra.Command, input string, opts routeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	d, err := loadDiagram(cmd.InOrStdin(), input, erio.Format(opts.stdin))
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.Config.PipelineOptions()
	popts.EdgeID = opts.edge
	popts.NoHops = popts.NoHops || opts.noHops
	popts.Logger = logger

	prog := newProgress(logger)
	geoms, cached, err := runner.RouteWithCacheInfo(ctx, d, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Routed %s", plural(len(geoms), "connector", "connectors")))

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(geoms)
	}

	hops := 0
	for _, g := range geoms {
		printGeometry(out, g)
		hops += g.Path.Hops()
		if !g.Source.Resolved || !g.Target.Resolved {
			printWarning(out, "%s references a missing entity; its end is drawn at the origin", g.EdgeID)
		}
	}
	printStats(out, len(d.Nodes), len(geoms), hops, cached)
	return nil
}

// loadDiagram reads a diagram from a file, or from r when input is "-".
func loadDiagram(r io.Reader, input string, stdinFormat erio.Format) (*diagram.Diagram, error) {
	if input == "-" {
		return erio.ReadDiagram(r, stdinFormat)
	}
	return erio.ImportDiagram(input)
}
