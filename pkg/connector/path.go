package connector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/erwire/pkg/geom"
)

// =============================================================================
// Polyline - Raw Routed Path
// =============================================================================

// Polyline is an ordered list of points joined by straight segments.
type Polyline []geom.Point

// Segments returns the number of segments in pl.
func (pl Polyline) Segments() int {
	if len(pl) < 2 {
		return 0
	}
	return len(pl) - 1
}

// Segment returns the endpoints of segment i.
func (pl Polyline) Segment(i int) (geom.Point, geom.Point) {
	return pl[i], pl[i+1]
}

// Length returns the total length of pl.
func (pl Polyline) Length() float64 {
	var l float64
	for i := 0; i < pl.Segments(); i++ {
		l += pl[i].Dist(pl[i+1])
	}
	return l
}

// PointAtLength returns the point at distance d along pl, clamped to its
// endpoints.
func (pl Polyline) PointAtLength(d float64) geom.Point {
	if len(pl) == 0 {
		return geom.Point{}
	}
	for i := 0; i < pl.Segments(); i++ {
		a, b := pl.Segment(i)
		l := a.Dist(b)
		if d <= l && l > 0 {
			return geom.Lerp(a, b, d/l)
		}
		d -= l
	}
	return pl[len(pl)-1]
}

// =============================================================================
// Path - Drawable Path With Arcs
// =============================================================================

// OpKind is a path drawing command.
type OpKind int

const (
	MoveTo OpKind = iota
	LineTo
	QuadTo
)

var opLetters = [...]string{MoveTo: "M", LineTo: "L", QuadTo: "Q"}

// String returns the SVG command letter.
func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opLetters) {
		return "?"
	}
	return opLetters[k]
}

// MarshalText encodes the kind as its SVG letter.
func (k OpKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes an SVG letter.
func (k *OpKind) UnmarshalText(b []byte) error {
	for i, l := range opLetters {
		if l == string(b) {
			*k = OpKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown path op %q", b)
}

// Op is one drawing command. Ctrl is only meaningful for QuadTo.
type Op struct {
	Kind OpKind     `json:"op"`
	Ctrl geom.Point `json:"ctrl,omitzero"`
	To   geom.Point `json:"to"`
}

// Path is a drawable connector path: a MoveTo followed by lines and
// quadratic hop arcs.
type Path []Op

// Start returns the first point of p.
func (p Path) Start() geom.Point {
	if len(p) == 0 {
		return geom.Point{}
	}
	return p[0].To
}

// End returns the last point of p.
func (p Path) End() geom.Point {
	if len(p) == 0 {
		return geom.Point{}
	}
	return p[len(p)-1].To
}

// Hops returns the number of arcs in p.
func (p Path) Hops() int {
	n := 0
	for _, op := range p {
		if op.Kind == QuadTo {
			n++
		}
	}
	return n
}

// SVG renders p as SVG path data, e.g. "M 0 0 L 10 0 Q 15 -10 20 0".
func (p Path) SVG() string {
	var b strings.Builder
	for i, op := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(op.Kind.String())
		if op.Kind == QuadTo {
			writeCoord(&b, op.Ctrl)
		}
		writeCoord(&b, op.To)
	}
	return b.String()
}

func writeCoord(b *strings.Builder, p geom.Point) {
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// =============================================================================
// PathBuilder
// =============================================================================

// BuildPath builds the raw orthogonal route from src to dst:
//
//	src → srcOffset → [corner] → dstOffset → dst
//
// The offset points extend each end PerpendicularOffset along its anchor
// direction. Side anchors (left/right) leave horizontally, top/bottom anchors
// leave vertically, and the first routing leg follows the source's axis:
//
//   - side ↔ side: horizontal, then vertical if the Y coordinates differ
//   - top/bottom ↔ top/bottom: vertical, then horizontal if the X differ
//   - mixed: an L whose first leg follows the source anchor
//
// Consecutive duplicate points are dropped. The first and last points are
// exactly src.Point and dst.Point.
//
// This is the only path construction routine: the router uses it both for the
// edge being computed and for rebuilding every peer it is tested against.
func BuildPath(src, dst Endpoint, m Metrics) Polyline {
	pl := make(Polyline, 0, 6)
	pl = appendDistinct(pl, src.Point)
	for _, p := range routeRun(src, dst, m) {
		pl = appendDistinct(pl, p)
	}
	pl = appendDistinct(pl, dst.Point)
	// A trailing duplicate may have been dropped in favour of a nearly equal
	// corner; the end must be the exact connection point.
	if last := len(pl) - 1; last > 0 {
		pl[last] = dst.Point
	} else if pl[0] != dst.Point {
		pl = append(pl, dst.Point)
	}
	return pl
}

// routeRun returns the routing points between the two offset points,
// inclusive. This is the part of the path the label sits on.
func routeRun(src, dst Endpoint, m Metrics) Polyline {
	so := src.Point.Add(src.Dir.Scale(m.PerpendicularOffset))
	do := dst.Point.Add(dst.Dir.Scale(m.PerpendicularOffset))

	var corner geom.Point
	if src.Side.IsHorizontal() {
		corner = geom.Pt(do.X, so.Y)
	} else {
		corner = geom.Pt(so.X, do.Y)
	}

	run := Polyline{so}
	run = appendDistinct(run, corner)
	run = appendDistinct(run, do)
	return run
}

func appendDistinct(pl Polyline, p geom.Point) Polyline {
	if n := len(pl); n > 0 && pl[n-1].Eq(p) {
		return pl
	}
	return append(pl, p)
}

// labelPoint returns the arc-length midpoint of the routing run. A degenerate
// run falls back to the midpoint of the connection points.
func labelPoint(src, dst Endpoint, m Metrics) geom.Point {
	run := routeRun(src, dst, m)
	l := run.Length()
	if l < geom.Epsilon {
		return geom.Mid(src.Point, dst.Point)
	}
	return run.PointAtLength(l / 2)
}
