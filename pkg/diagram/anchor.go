package diagram

import (
	"strings"

	"github.com/matzehuels/erwire/pkg/geom"
)

// Anchor is a parsed connection point: a node face plus the fraction along
// that face (0 at the top/left end, 1 at the bottom/right end).
type Anchor struct {
	Side     Side
	Fraction float64
}

// Valid reports whether the anchor names a known side.
func (a Anchor) Valid() bool { return a.Side != SideNone }

// Point returns the connection point of a on rectangle r.
func (a Anchor) Point(r Rect) geom.Point {
	switch a.Side {
	case SideTop:
		return geom.Pt(r.X+r.W*a.Fraction, r.Y)
	case SideBottom:
		return geom.Pt(r.X+r.W*a.Fraction, r.Y+r.H)
	case SideLeft:
		return geom.Pt(r.X, r.Y+r.H*a.Fraction)
	case SideRight:
		return geom.Pt(r.X+r.W, r.Y+r.H*a.Fraction)
	default:
		return r.Center()
	}
}

// Sub-position fractions along a face.
const (
	fractionStart  = 0.25
	fractionCenter = 0.5
	fractionEnd    = 0.75
)

var sideNames = map[string]Side{
	"top":    SideTop,
	"bottom": SideBottom,
	"left":   SideLeft,
	"right":  SideRight,
}

// subPositions maps the qualifier after the side name to a fraction. The
// cross-axis names only make sense on the perpendicular faces.
var subPositions = map[Side]map[string]float64{
	SideTop:    {"left": fractionStart, "right": fractionEnd},
	SideBottom: {"left": fractionStart, "right": fractionEnd},
	SideLeft:   {"top": fractionStart, "bottom": fractionEnd},
	SideRight:  {"top": fractionStart, "bottom": fractionEnd},
}

var genericPositions = map[string]float64{
	"start":  fractionStart,
	"center": fractionCenter,
	"middle": fractionCenter,
	"end":    fractionEnd,
}

// ParseAnchor parses an anchor name. Accepted forms:
//
//	top | bottom | left | right
//	<side>-start | <side>-center | <side>-end
//	top-left | top-right | bottom-left | bottom-right
//	left-top | left-bottom | right-top | right-bottom
//
// Names are case-insensitive, underscores count as dashes, and trailing
// handle qualifiers "-source" / "-target" are ignored. Unknown names return
// ok=false.
func ParseAnchor(name string) (Anchor, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	n = strings.TrimSuffix(n, "-source")
	n = strings.TrimSuffix(n, "-target")

	head, rest, qualified := strings.Cut(n, "-")
	side, ok := sideNames[head]
	if !ok {
		return Anchor{}, false
	}
	if !qualified {
		return Anchor{Side: side, Fraction: fractionCenter}, true
	}
	if f, ok := genericPositions[rest]; ok {
		return Anchor{Side: side, Fraction: f}, true
	}
	if f, ok := subPositions[side][rest]; ok {
		return Anchor{Side: side, Fraction: f}, true
	}
	return Anchor{}, false
}
