package svg

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/geom"
	"github.com/matzehuels/erwire/pkg/render"
)

// DefaultPadding is the margin around the drawing.
const DefaultPadding = 40.0

// Option configures SVG rendering via [RenderSVG].
type Option func(*renderer)

type renderer struct {
	style   Style
	labels  bool
	padding float64
	raw     bool
}

// WithLabels draws relationship labels at each connector's label point.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithPadding sets the margin around the drawing.
func WithPadding(p float64) Option { return func(r *renderer) { r.padding = p } }

// WithRawPaths overlays each connector's raw polyline, before hop insertion,
// as a dashed line. Useful when debugging routing.
func WithRawPaths() Option { return func(r *renderer) { r.raw = true } }

// WithStyle replaces the default [Simple] style.
func WithStyle(s Style) Option { return func(r *renderer) { r.style = s } }

// RenderSVG draws d with the routed geometry geoms as a standalone SVG
// document.
//
// Entities are drawn first and connectors on top, so hop arcs and symbols
// stay visible; entity labels come last. Entities and connectors are emitted
// sorted by id, which makes the output byte-stable for the same input.
// RenderSVG does not modify d or geoms.
func RenderSVG(d *diagram.Diagram, geoms []connector.Geometry, opts ...Option) []byte {
	r := newRenderer(opts...)

	entities := buildEntities(d)
	sorted := slices.Clone(geoms)
	slices.SortStableFunc(sorted, func(a, b connector.Geometry) int { return cmp.Compare(a.EdgeID, b.EdgeID) })

	ext := render.Extent(d, geoms, r.padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(ext.X), num(ext.Y), num(ext.W), num(ext.H), ext.W, ext.H)

	r.style.RenderDefs(&buf)
	for _, e := range entities {
		r.style.RenderEntity(&buf, e)
	}
	for _, g := range sorted {
		renderGeometry(&buf, &r, g)
	}
	for _, e := range entities {
		r.style.RenderText(&buf, Text{
			Class: "entity-text",
			Value: TruncateLabel(e),
			At:    geom.Pt(e.X+e.W/2, e.Y+e.H/2),
			Size:  FontSize(e),
		})
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newRenderer(opts ...Option) renderer {
	r := renderer{style: Simple{}, padding: DefaultPadding}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderGeometry(buf *bytes.Buffer, r *renderer, g connector.Geometry) {
	r.style.RenderConnector(buf, Connector{EdgeID: g.EdgeID, Kind: g.Kind, D: g.Path.SVG()})
	if r.raw {
		r.style.RenderConnector(buf, Connector{EdgeID: g.EdgeID, Kind: g.Kind, D: rawPathData(g.Raw), Raw: true})
	}
	for _, s := range g.Symbols {
		r.style.RenderSymbol(buf, g.EdgeID, s)
	}
	if r.labels && g.Label != "" {
		r.style.RenderText(buf, Text{
			Class:    "edge-label",
			Value:    g.Label,
			At:       g.LabelPoint,
			Size:     edgeLabelSize,
			Backdrop: true,
		})
	}
}

func rawPathData(pl connector.Polyline) string {
	if len(pl) == 0 {
		return ""
	}
	p := connector.Path{{Kind: connector.MoveTo, To: pl[0]}}
	for _, pt := range pl[1:] {
		p = append(p, connector.Op{Kind: connector.LineTo, To: pt})
	}
	return p.SVG()
}

func buildEntities(d *diagram.Diagram) []Entity {
	out := make([]Entity, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		b := n.Bounds()
		out = append(out, Entity{ID: n.ID, Label: n.DisplayLabel(), X: b.X, Y: b.Y, W: b.W, H: b.H})
	}
	slices.SortFunc(out, func(a, b Entity) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
