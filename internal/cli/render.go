package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erwire/pkg/diagram"
	erio "github.com/matzehuels/erwire/pkg/io"
	"github.com/matzehuels/erwire/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command. Unset
// flags fall back to the [render] section of the config file.
type renderOpts struct {
	output   string // output file (single format) or base path (multiple)
	formats  string // comma-separated output formats
	edge     string // render only this edge
	noHops   bool   // skip crossing detection
	labels   bool   // draw relationship labels
	rawPaths bool   // overlay the raw routing polylines
	padding  float64
	splines  string // Graphviz edge routing for dot/graphviz outputs
	noCache  bool
	stdin    string
}

// renderCommand creates the render command for generating outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a diagram with routed connectors",
		Long: `Route every connector of a diagram and write the result in one or more
formats:

  svg       standalone SVG with hop arcs and crow's-foot notation
  json      geometry document for downstream renderers
  dot       Graphviz DOT with pinned entities and crow's-foot arrowheads
  graphviz  SVG drawn by Graphviz from the DOT output

With a single format, -o names the output file. With several, -o is a base
path and each format gets its extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, json, dot, graphviz (comma-separated)")
	cmd.Flags().StringVarP(&opts.edge, "edge", "e", "", "render only this edge id")
	cmd.Flags().BoolVar(&opts.noHops, "no-hops", false, "do not insert hop arcs at crossings")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw relationship labels")
	cmd.Flags().BoolVar(&opts.rawPaths, "raw-paths", false, "overlay the raw routing polylines (svg)")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "margin around the drawing")
	cmd.Flags().StringVar(&opts.splines, "splines", "", "Graphviz spline mode for dot outputs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")
	cmd.Flags().StringVar(&opts.stdin, "stdin-format", string(erio.FormatJSON), "diagram format when reading stdin: json, yaml, toml")

	return cmd
}

// pipelineOptions layers the flags that were set on top of the config.
func (c *CLI) pipelineOptions(cmd *cobra.Command, opts renderOpts) pipeline.Options {
	popts := c.Config.PipelineOptions()
	popts.EdgeID = opts.edge
	if f := parseFormats(opts.formats); f != nil {
		popts.Formats = f
	}
	flags := cmd.Flags()
	if flags.Changed("no-hops") {
		popts.NoHops = opts.noHops
	}
	if flags.Changed("labels") {
		popts.Labels = opts.labels
	}
	if flags.Changed("raw-paths") {
		popts.RawPaths = opts.rawPaths
	}
	if flags.Changed("padding") {
		popts.Padding = opts.padding
	}
	if opts.splines != "" {
		popts.Splines = opts.splines
	}
	return popts
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts := c.pipelineOptions(cmd, opts)
	popts.Logger = logger
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	d, err := loadDiagram(cmd.InOrStdin(), input, erio.Format(opts.stdin))
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.execute(ctx, runner, d, popts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Rendered %s", strings.Join(popts.Formats, ", "))
	printStats(out, res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.HopCount, res.CacheInfo.RouteHit && res.CacheInfo.RenderHit)

	paths := outputPaths(opts.output, input, popts.Formats)
	for _, format := range popts.Formats {
		path := paths[format]
		if err := writeOutput(path, res.Artifacts[format]); err != nil {
			return err
		}
		printFile(out, path)
	}
	return nil
}

// execute runs the pipeline, showing a spinner when Graphviz is involved
// since its first run compiles the WebAssembly module.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, d *diagram.Diagram, opts pipeline.Options) (*pipeline.Result, error) {
	if !slices.Contains(opts.Formats, pipeline.FormatGraphviz) {
		return runner.Execute(ctx, d, opts)
	}
	spin := newSpinner(ctx, os.Stderr, "Rendering with Graphviz...")
	spin.Start()
	res, err := runner.Execute(ctx, d, opts)
	switch {
	case err != nil && spin.Cancelled():
		spin.Stop()
		return nil, err
	case err != nil:
		spin.StopWithError("Graphviz rendering failed")
		return nil, err
	}
	spin.StopWithSuccess("Graphviz rendering done")
	return res, nil
}

// outputPaths maps each format to its output file. With one format an
// explicit output is used as-is; otherwise the base path (output without a
// known extension, or the input without its extension) gets each format's
// extension.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + pipeline.Extension(f)
	}
	return paths
}

// basePath derives the base output path. If output is empty, it strips the
// extension from input ("diagram" for stdin). Otherwise it strips the
// longest known output extension from output.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "diagram"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	longest := ""
	for _, f := range pipeline.ValidFormats {
		if ext := pipeline.Extension(f); strings.HasSuffix(output, ext) && len(ext) > len(longest) {
			longest = ext
		}
	}
	return strings.TrimSuffix(output, longest)
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
