package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/geom"
)

// Style defines the visual appearance of a rendered diagram.
// Implementations control how entities, connectors, symbols and text are drawn.
type Style interface {
	// RenderDefs writes SVG <defs>/<style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderEntity writes the SVG for a single entity box.
	RenderEntity(buf *bytes.Buffer, e Entity)
	// RenderConnector writes the SVG for a routed connector path.
	RenderConnector(buf *bytes.Buffer, c Connector)
	// RenderSymbol writes the SVG for one crow's-foot notation primitive.
	RenderSymbol(buf *bytes.Buffer, edgeID string, s connector.Symbol)
	// RenderText writes a text label centered on a point.
	RenderText(buf *bytes.Buffer, t Text)
}

// Entity contains all data needed to render a single entity box.
type Entity struct {
	ID         string  // Node identifier
	Label      string  // Display text
	X, Y, W, H float64 // Position and dimensions
}

// Connector contains the data needed to render one connector.
type Connector struct {
	EdgeID string
	Kind   string // rendering kind, used as a CSS class
	D      string // SVG path data
	Raw    bool   // debug overlay of the unhopped polyline
}

// Text is a label anchored at its center.
type Text struct {
	Class string
	Value string
	At    geom.Point
	Size  float64
	// Backdrop draws a background rectangle so the text stays legible over
	// connector lines.
	Backdrop bool
}

// Simple is the default flat style: white boxes, dark strokes.
type Simple struct{}

const simpleCSS = `
    .entity { fill: #ffffff; stroke: #333333; stroke-width: 1.5; }
    .entity-text { font-family: Helvetica, Arial, sans-serif; fill: #333333; }
    .connector { fill: none; stroke: #333333; stroke-width: 1.5; }
    .connector.raw { stroke: #d33; stroke-width: 1; stroke-dasharray: 4 3; }
    .symbol { fill: none; stroke: #333333; stroke-width: 1.5; }
    circle.symbol { fill: #ffffff; }
    .edge-label { font-family: Helvetica, Arial, sans-serif; fill: #555555; }
    .edge-label-bg { fill: #ffffff; opacity: 0.85; }`

func (Simple) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", simpleCSS)
}

func (Simple) RenderEntity(buf *bytes.Buffer, e Entity) {
	fmt.Fprintf(buf, `  <rect id="entity-%s" class="entity" x="%s" y="%s" width="%s" height="%s" rx="4"/>`+"\n",
		EscapeXML(e.ID), num(e.X), num(e.Y), num(e.W), num(e.H))
}

func (Simple) RenderConnector(buf *bytes.Buffer, c Connector) {
	class := "connector " + EscapeXML(c.Kind)
	id := "edge-" + EscapeXML(c.EdgeID)
	if c.Raw {
		class += " raw"
		id += "-raw"
	}
	fmt.Fprintf(buf, `  <path id="%s" class="%s" d="%s"/>`+"\n", id, class, c.D)
}

func (Simple) RenderSymbol(buf *bytes.Buffer, edgeID string, s connector.Symbol) {
	data := fmt.Sprintf(`class="symbol %s" data-edge="%s" data-end="%s"`, s.Kind, EscapeXML(edgeID), s.End)
	switch s.Kind {
	case connector.SymbolLine:
		if len(s.Points) == 2 {
			fmt.Fprintf(buf, `  <line %s x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
				data, num(s.Points[0].X), num(s.Points[0].Y), num(s.Points[1].X), num(s.Points[1].Y))
		}
	case connector.SymbolCircle:
		fmt.Fprintf(buf, `  <circle %s cx="%s" cy="%s" r="%s"/>`+"\n",
			data, num(s.Center.X), num(s.Center.Y), num(s.Radius))
	case connector.SymbolCrowFoot:
		if len(s.Points) < 2 {
			return
		}
		base := s.Points[0]
		var d strings.Builder
		for _, tip := range s.Points[1:] {
			fmt.Fprintf(&d, "M %s %s L %s %s ", num(base.X), num(base.Y), num(tip.X), num(tip.Y))
		}
		fmt.Fprintf(buf, `  <path %s d="%s"/>`+"\n", data, strings.TrimSpace(d.String()))
	}
}

func (Simple) RenderText(buf *bytes.Buffer, t Text) {
	if t.Value == "" {
		return
	}
	if t.Backdrop {
		w := textWidth(t.Value, t.Size) + 4
		h := t.Size + 2
		fmt.Fprintf(buf, `  <rect class="%s-bg" x="%s" y="%s" width="%s" height="%s" rx="2"/>`+"\n",
			t.Class, num(t.At.X-w/2), num(t.At.Y-h/2), num(w), num(h))
	}
	fmt.Fprintf(buf, `  <text class="%s" x="%s" y="%s" font-size="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		t.Class, num(t.At.X), num(t.At.Y), num(t.Size), EscapeXML(t.Value))
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
