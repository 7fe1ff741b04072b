// Package pipeline provides the route → render pipeline shared by the CLI
// and the HTTP service.
//
// Centralizing the stages here keeps caching, defaults and observability
// identical across entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Route: Compute connector geometry for every edge (or one edge) of a
//     diagram with [connector.Router]
//  2. Render: Generate output in the requested formats (SVG, JSON, DOT, or
//     Graphviz-rendered SVG)
//
// Both stages are cached by content hash: geometry is keyed by the diagram,
// the metrics and the hop setting; artifacts are keyed by the routed
// geometry and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, d, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatJSON},
//	    Labels:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	geoms, err := runner.Route(ctx, d, opts)
//	artifacts, err := runner.Render(ctx, d, geoms, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erwire/pkg/cache"
	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/errors"
	"github.com/matzehuels/erwire/pkg/render/svg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultPadding is the margin around the drawing in rendered outputs.
const DefaultPadding = svg.DefaultPadding

// DefaultSplines is the Graphviz edge routing mode for DOT outputs.
const DefaultSplines = "ortho"

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz" // SVG drawn by Graphviz from the DOT output
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatSVG, FormatJSON, FormatDOT, FormatGraphviz}

var formatExtensions = map[string]string{
	FormatSVG:      ".svg",
	FormatJSON:     ".json",
	FormatDOT:      ".dot",
	FormatGraphviz: ".graphviz.svg",
}

// Extension returns the file extension for an output format.
func Extension(format string) string {
	if ext, ok := formatExtensions[format]; ok {
		return ext
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Route options
	EdgeID  string            `json:"edge_id,omitempty"` // empty routes every edge
	NoHops  bool              `json:"no_hops,omitempty"`
	Metrics connector.Metrics `json:"metrics"` // zero fields take the defaults
	Refresh bool              `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	RawPaths bool     `json:"raw_paths,omitempty"`
	Padding  float64  `json:"padding,omitempty"`
	Splines  string   `json:"splines,omitempty"`

	// Runtime options (not serialized)
	Workers int         `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DiagramHash is the content hash of the input diagram.
	DiagramHash string

	// Geometries holds the routed connectors in edge order.
	Geometries []connector.Geometry

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	HopCount   int
	RouteTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RouteHit  bool // Whether geometry came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRoute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRoute checks the edge id, fills metric defaults and validates
// the metrics.
func (o *Options) ValidateForRoute() error {
	if o.EdgeID != "" {
		if err := errors.ValidateID(o.EdgeID); err != nil {
			return err
		}
	}
	o.Metrics = o.Metrics.WithDefaults()
	if err := o.Metrics.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Splines == "" {
		o.Splines = DefaultSplines
	}
	o.Metrics = o.Metrics.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative, got %g", o.Padding)
	}
	if err := o.Metrics.Validate(); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// RouterOptions returns the connector.Router configuration for these options.
func (o *Options) RouterOptions() []connector.Option {
	opts := []connector.Option{
		connector.WithMetrics(o.Metrics),
		connector.WithLogger(o.Logger),
		connector.WithWorkers(o.Workers),
	}
	if o.NoHops {
		opts = append(opts, connector.WithoutHops())
	}
	return opts
}

// GeometryKeyOpts returns cache key options for routing.
func (o *Options) GeometryKeyOpts(metricsHash string) cache.GeometryKeyOpts {
	return cache.GeometryKeyOpts{
		EdgeID:      o.EdgeID,
		Hops:        !o.NoHops,
		MetricsHash: metricsHash,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, metricsHash string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Hops:        !o.NoHops,
		Labels:      o.Labels,
		RawPaths:    o.RawPaths,
		Padding:     o.Padding,
		Splines:     o.Splines,
		MetricsHash: metricsHash,
	}
}

// hopCount sums the hop arcs over all geometries.
func hopCount(geoms []connector.Geometry) int {
	n := 0
	for _, g := range geoms {
		n += g.Path.Hops()
	}
	return n
}

// edgeCount returns the number of edges routed for d under opts.
func edgeCount(d *diagram.Diagram, opts Options) int {
	if opts.EdgeID != "" {
		return 1
	}
	return len(d.Edges)
}
