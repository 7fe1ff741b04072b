package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/render/dot"
	"github.com/matzehuels/erwire/pkg/render/jsonout"
	"github.com/matzehuels/erwire/pkg/render/svg"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, d *diagram.Diagram, geoms []connector.Geometry, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, format, d, geoms, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, d *diagram.Diagram, geoms []connector.Geometry, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return svg.RenderSVG(d, geoms, buildSVGOptions(opts)...), nil
	case FormatJSON:
		return jsonout.RenderJSON(d, geoms,
			jsonout.WithMetrics(opts.Metrics),
			jsonout.WithPadding(opts.Padding))
	case FormatDOT:
		return []byte(dot.ToDOT(d, geoms, buildDOTOptions(opts))), nil
	case FormatGraphviz:
		return dot.RenderSVG(ctx, dot.ToDOT(d, geoms, buildDOTOptions(opts)))
	default:
		return nil, ValidateFormat(format)
	}
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []svg.Option {
	svgOpts := []svg.Option{svg.WithPadding(opts.Padding)}
	if opts.Labels {
		svgOpts = append(svgOpts, svg.WithLabels())
	}
	if opts.RawPaths {
		svgOpts = append(svgOpts, svg.WithRawPaths())
	}
	return svgOpts
}

func buildDOTOptions(opts Options) dot.Options {
	return dot.Options{Labels: opts.Labels, Splines: opts.Splines}
}
