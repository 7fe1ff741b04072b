package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erwire/pkg/cache"
	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The cache is instrumented so lookups reach the observability hooks.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Instrument(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete route → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	if h, err := cache.HashJSON(d); err == nil {
		result.DiagramHash = h
	}

	// Stage 1: Route
	routeStart := time.Now()
	geoms, routeHit, err := r.RouteWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	result.Geometries = geoms
	result.Stats.RouteTime = time.Since(routeStart)
	result.Stats.NodeCount = len(d.Nodes)
	result.Stats.EdgeCount = len(geoms)
	result.Stats.HopCount = hopCount(geoms)
	result.CacheInfo.RouteHit = routeHit

	r.Logger.Info("routed connectors",
		"edges", result.Stats.EdgeCount,
		"hops", result.Stats.HopCount,
		"cached", routeHit,
		"duration", result.Stats.RouteTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, geoms, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RouteWithCacheInfo computes connector geometry with caching and returns
// cache hit info. With opts.EdgeID set only that edge is routed, though
// crossings are still detected against every other edge.
func (r *Runner) RouteWithCacheInfo(ctx context.Context, d *diagram.Diagram, opts Options) ([]connector.Geometry, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRoute(); err != nil {
		return nil, false, err
	}

	diagramHash, err := cache.HashJSON(d)
	if err != nil {
		return nil, false, fmt.Errorf("hash diagram: %w", err)
	}
	metricsHash, err := cache.HashJSON(opts.Metrics)
	if err != nil {
		return nil, false, fmt.Errorf("hash metrics: %w", err)
	}
	cacheKey := r.Keyer.GeometryKey(diagramHash, opts.GeometryKeyOpts(metricsHash))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []connector.Geometry
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRouteStart(ctx, edgeCount(d, opts))
	start := time.Now()

	geoms, err := route(ctx, d, opts)
	hooks.OnRouteComplete(ctx, edgeCount(d, opts), hopCount(geoms), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(geoms); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.GeometryTTL); err != nil {
			r.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
		}
	}
	return geoms, false, nil
}

// Route is a convenience wrapper that calls RouteWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Route(ctx context.Context, d *diagram.Diagram, opts Options) ([]connector.Geometry, error) {
	geoms, _, err := r.RouteWithCacheInfo(ctx, d, opts)
	return geoms, err
}

func route(ctx context.Context, d *diagram.Diagram, opts Options) ([]connector.Geometry, error) {
	router := connector.New(opts.RouterOptions()...)
	if opts.EdgeID == "" {
		return router.ComputeAll(ctx, *d)
	}
	g, err := router.Compute(*d, opts.EdgeID)
	if err != nil {
		return nil, err
	}
	return []connector.Geometry{g}, nil
}

// renderInput is what an artifact depends on besides the render options.
type renderInput struct {
	Diagram    *diagram.Diagram     `json:"diagram"`
	Geometries []connector.Geometry `json:"geometries"`
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The render stage counts as a hit only when every format was cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *diagram.Diagram, geoms []connector.Geometry, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	inputHash, err := cache.HashJSON(renderInput{Diagram: d, Geometries: geoms})
	if err != nil {
		return nil, false, fmt.Errorf("hash render input: %w", err)
	}
	metricsHash, err := cache.HashJSON(opts.Metrics)
	if err != nil {
		return nil, false, fmt.Errorf("hash metrics: %w", err)
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format, metricsHash))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := Render(ctx, d, geoms, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format, metricsHash))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); err != nil {
			r.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d *diagram.Diagram, geoms []connector.Geometry, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, geoms, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
