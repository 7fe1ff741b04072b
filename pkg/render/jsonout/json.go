// Package jsonout exports routed ER diagrams as a JSON geometry document.
//
// The document carries everything a downstream renderer needs to draw the
// diagram without re-running the router: the viewport, entity boxes and, per
// connector, the resolved endpoints, raw polyline, path operations (with hop
// arcs as quadratic segments), crow's-foot symbols and label point.
package jsonout

import (
	"encoding/json"

	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/render"
)

// Option configures JSON rendering via [RenderJSON].
type Option func(*jsonRenderer)

type jsonRenderer struct {
	metrics *connector.Metrics
	padding float64
	compact bool
}

// WithMetrics records the routing metrics in the output, so consumers can
// reproduce symbol sizes or re-route with the same settings.
func WithMetrics(m connector.Metrics) Option { return func(r *jsonRenderer) { r.metrics = &m } }

// WithPadding sets the viewport margin. Defaults to 40.
func WithPadding(p float64) Option { return func(r *jsonRenderer) { r.padding = p } }

// WithCompact disables indentation.
func WithCompact() Option { return func(r *jsonRenderer) { r.compact = true } }

// Document is the top-level JSON output.
type Document struct {
	Viewport   Viewport             `json:"viewport"`
	Metrics    *connector.Metrics   `json:"metrics,omitempty"`
	Entities   []Entity             `json:"entities"`
	Connectors []connector.Geometry `json:"connectors"`
}

// Viewport is the drawing extent including padding.
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Entity is an entity box with defaults applied.
type Entity struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON exports the routed diagram as a pretty-printed JSON document.
// Entities and connectors keep diagram order. RenderJSON returns an error
// only if marshaling fails; it does not modify d or geoms.
func RenderJSON(d *diagram.Diagram, geoms []connector.Geometry, opts ...Option) ([]byte, error) {
	r := jsonRenderer{padding: 40}
	for _, opt := range opts {
		opt(&r)
	}

	ext := render.Extent(d, geoms, r.padding)
	doc := Document{
		Viewport:   Viewport{X: ext.X, Y: ext.Y, Width: ext.W, Height: ext.H},
		Metrics:    r.metrics,
		Entities:   buildEntities(d),
		Connectors: geoms,
	}
	if doc.Connectors == nil {
		doc.Connectors = []connector.Geometry{}
	}

	if r.compact {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func buildEntities(d *diagram.Diagram) []Entity {
	out := make([]Entity, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		b := n.Bounds()
		out = append(out, Entity{ID: n.ID, Label: n.DisplayLabel(), X: b.X, Y: b.Y, Width: b.W, Height: b.H})
	}
	return out
}
