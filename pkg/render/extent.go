package render

import (
	"math"

	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/geom"
)

// Extent returns the smallest rectangle holding every entity, every routed
// path point (hop control points included) and every symbol of d, grown by
// pad on each side. An empty drawing yields a pad-sized square at the origin.
func Extent(d *diagram.Diagram, geoms []connector.Geometry, pad float64) diagram.Rect {
	b := newBox()
	for _, n := range d.Nodes {
		r := n.Bounds()
		b.add(geom.Pt(r.X, r.Y))
		b.add(geom.Pt(r.X+r.W, r.Y+r.H))
	}
	for _, g := range geoms {
		for _, op := range g.Path {
			b.add(op.To)
			if op.Kind == connector.QuadTo {
				b.add(op.Ctrl)
			}
		}
		for _, s := range g.Symbols {
			for _, p := range s.Points {
				b.add(p)
			}
			if s.Kind == connector.SymbolCircle {
				b.add(s.Center.Sub(geom.Pt(s.Radius, s.Radius)))
				b.add(s.Center.Add(geom.Pt(s.Radius, s.Radius)))
			}
		}
	}
	if b.empty() {
		return diagram.Rect{X: -pad, Y: -pad, W: 2 * pad, H: 2 * pad}
	}
	return diagram.Rect{
		X: b.min.X - pad,
		Y: b.min.Y - pad,
		W: b.max.X - b.min.X + 2*pad,
		H: b.max.Y - b.min.Y + 2*pad,
	}
}

type box struct{ min, max geom.Point }

func newBox() box {
	return box{
		min: geom.Pt(math.Inf(1), math.Inf(1)),
		max: geom.Pt(math.Inf(-1), math.Inf(-1)),
	}
}

func (b *box) add(p geom.Point) {
	b.min = geom.Pt(math.Min(b.min.X, p.X), math.Min(b.min.Y, p.Y))
	b.max = geom.Pt(math.Max(b.max.X, p.X), math.Max(b.max.Y, p.Y))
}

func (b box) empty() bool { return math.IsInf(b.min.X, 1) }
