package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/erwire/pkg/cache"
	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/errors"
	"github.com/matzehuels/erwire/pkg/geom"
	"github.com/matzehuels/erwire/pkg/observability"
)

func node(id string, x, y, w, h float64) diagram.Node {
	return diagram.Node{ID: id, Position: geom.Pt(x, y), Size: diagram.Size{Width: w, Height: h}}
}

// crossing has two connectors whose middle segments cross once.
func crossing() *diagram.Diagram {
	return &diagram.Diagram{
		Nodes: []diagram.Node{
			node("A", 0, 0, 100, 100),
			node("B", 0, 400, 100, 100),
			node("C", -300, 200, 100, 100),
			node("D", 300, 200, 100, 100),
		},
		Edges: []diagram.Edge{
			{ID: "v", Source: "A", Target: "B", SourceAnchor: "bottom", TargetAnchor: "top", Type: "OneToMany"},
			{ID: "h", Source: "C", Target: "D", SourceAnchor: "right", TargetAnchor: "left", Type: "ManyToMany"},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"graphviz", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid: %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Padding != DefaultPadding {
		t.Errorf("Padding = %g, want %g", opts.Padding, DefaultPadding)
	}
	if opts.Splines != DefaultSplines {
		t.Errorf("Splines = %q, want %q", opts.Splines, DefaultSplines)
	}
	if opts.Metrics != connector.DefaultMetrics() {
		t.Errorf("Metrics = %+v, want defaults", opts.Metrics)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestOptionsKeepOverrides(t *testing.T) {
	opts := Options{
		Formats: []string{FormatDOT},
		Padding: 5,
		Metrics: connector.Metrics{HopHeight: 20},
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Padding != 5 || opts.Formats[0] != FormatDOT {
		t.Errorf("overrides lost: %+v", opts)
	}
	if opts.Metrics.HopHeight != 20 || opts.Metrics.HopWindow != connector.DefaultMetrics().HopWindow {
		t.Errorf("Metrics = %+v", opts.Metrics)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad edge id", Options{EdgeID: " e1"}, errors.ErrCodeInvalidID},
		{"bad format", Options{Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
		{"negative padding", Options{Padding: -1}, errors.ErrCodeInvalidInput},
		{"negative hop window", Options{Metrics: connector.Metrics{HopWindow: -0.1}}, errors.ErrCodeInvalidInput},
		{"empty intersect window", Options{Metrics: connector.Metrics{IntersectMinT: 0.6, IntersectMaxT: 0.4}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestKeyOpts(t *testing.T) {
	opts := Options{EdgeID: "e1", NoHops: true, Labels: true, Padding: 10, Splines: "line"}
	gk := opts.GeometryKeyOpts("m")
	if gk.EdgeID != "e1" || gk.Hops || gk.MetricsHash != "m" {
		t.Errorf("GeometryKeyOpts = %+v", gk)
	}
	ak := opts.ArtifactKeyOpts("svg", "m")
	if ak.Format != "svg" || ak.Hops || !ak.Labels || ak.Padding != 10 || ak.Splines != "line" {
		t.Errorf("ArtifactKeyOpts = %+v", ak)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		FormatSVG:      ".svg",
		FormatJSON:     ".json",
		FormatDOT:      ".dot",
		FormatGraphviz: ".graphviz.svg",
		"txt":          ".txt",
	}
	for format, want := range tests {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), crossing(), Options{
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
		Labels:  true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.NodeCount != 4 || res.Stats.EdgeCount != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Stats.HopCount != 2 {
		t.Errorf("HopCount = %d, want 2 (one per crossing connector)", res.Stats.HopCount)
	}
	if res.DiagramHash == "" {
		t.Error("DiagramHash should be set")
	}
	if res.CacheInfo.RouteHit || res.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}

	for _, f := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), " Q ") {
		t.Error("SVG should contain a hop arc")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph ER {") {
		t.Error("DOT output should be a digraph")
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), `"edge_id": "v"`) {
		t.Error("JSON output should carry the connectors")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), crossing(), Options{Formats: []string{"bmp"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestRouteSingleEdge(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	geoms, err := r.Route(context.Background(), crossing(), Options{EdgeID: "h"})
	if err != nil {
		t.Fatal(err)
	}
	if len(geoms) != 1 || geoms[0].EdgeID != "h" {
		t.Fatalf("geoms = %+v", geoms)
	}
	if geoms[0].Path.Hops() != 1 {
		t.Errorf("single-edge routing should still see peers, hops = %d", geoms[0].Path.Hops())
	}

	_, err = r.Route(context.Background(), crossing(), Options{EdgeID: "nope"})
	if !errors.Is(err, errors.ErrCodeEdgeNotFound) {
		t.Errorf("error = %v, want EDGE_NOT_FOUND", err)
	}
}

func TestRouteNoHops(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	geoms, err := r.Route(context.Background(), crossing(), Options{NoHops: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := hopCount(geoms); n != 0 {
		t.Errorf("hopCount = %d, want 0", n)
	}
}

func newFileCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return c
}

func TestRouteCaching(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newFileCache(t), nil, nil)
	defer r.Close()
	d := crossing()

	first, hit, err := r.RouteWithCacheInfo(ctx, d, Options{})
	if err != nil || hit {
		t.Fatalf("first route: hit %v, err %v", hit, err)
	}
	second, hit, err := r.RouteWithCacheInfo(ctx, d, Options{})
	if err != nil || !hit {
		t.Fatalf("second route: hit %v, err %v", hit, err)
	}
	for i := range first {
		if first[i].Path.SVG() != second[i].Path.SVG() {
			t.Errorf("cached path %d = %q, want %q", i, second[i].Path.SVG(), first[i].Path.SVG())
		}
	}

	// Different metrics miss
	if _, hit, _ := r.RouteWithCacheInfo(ctx, d, Options{Metrics: connector.Metrics{HopHeight: 4}}); hit {
		t.Error("changed metrics should not hit the cache")
	}
	// Refresh bypasses the cache
	if _, hit, _ := r.RouteWithCacheInfo(ctx, d, Options{Refresh: true}); hit {
		t.Error("Refresh should bypass the cache")
	}
	// Moving a node misses
	d.Nodes[0].Position.X += 10
	if _, hit, _ := r.RouteWithCacheInfo(ctx, d, Options{}); hit {
		t.Error("moved node should not hit the cache")
	}
}

func TestRenderCaching(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newFileCache(t), nil, nil)
	d := crossing()
	opts := Options{Formats: []string{FormatSVG, FormatDOT}}

	geoms, err := r.Route(ctx, d, opts)
	if err != nil {
		t.Fatal(err)
	}
	first, hit, err := r.RenderWithCacheInfo(ctx, d, geoms, opts)
	if err != nil || hit {
		t.Fatalf("first render: hit %v, err %v", hit, err)
	}
	second, hit, err := r.RenderWithCacheInfo(ctx, d, geoms, opts)
	if err != nil || !hit {
		t.Fatalf("second render: hit %v, err %v", hit, err)
	}
	if string(first[FormatSVG]) != string(second[FormatSVG]) {
		t.Error("cached SVG differs from rendered SVG")
	}

	// A format not rendered before forces a full render
	_, hit, err = r.RenderWithCacheInfo(ctx, d, geoms, Options{Formats: []string{FormatSVG, FormatJSON}})
	if err != nil || hit {
		t.Errorf("partial cache: hit %v, err %v", hit, err)
	}
}

func TestRenderDirect(t *testing.T) {
	d := crossing()
	geoms, err := connector.New().ComputeAll(context.Background(), *d)
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(context.Background(), d, geoms, Options{Formats: []string{FormatSVG, FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if len(artifacts) != 2 {
		t.Errorf("artifacts = %d formats, want 2", len(artifacts))
	}

	if _, err := Render(context.Background(), d, geoms, Options{Formats: []string{"bmp"}}); err == nil {
		t.Error("unknown format should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, d, geoms, Options{}); err == nil {
		t.Error("cancelled context should fail")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
	hops   int
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnRouteStart(context.Context, int) { h.record("route-start") }
func (h *recordingHooks) OnRouteComplete(_ context.Context, _, hops int, _ time.Duration, _ error) {
	h.hops = hops
	h.record("route-complete")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render-complete")
}

func TestPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), crossing(), Options{}); err != nil {
		t.Fatal(err)
	}

	want := []string{"route-start", "route-complete", "render-start", "render-complete"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
	if hooks.hops != 2 {
		t.Errorf("reported hops = %d, want 2", hooks.hops)
	}
}
