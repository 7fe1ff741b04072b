package connector

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/erwire/pkg/geom"
)

// InsertHops rewrites raw into a drawable path with a hop-over arc at every
// intersection.
//
// For each crossing on a segment the window [t-HopWindow, t+HopWindow],
// clamped to [0,1], is cut out of the segment and replaced by a quadratic
// curve. The curve's control point sits HopHeight away from the crossing,
// along the segment direction rotated 90° counter-clockwise (-dy, dx), so
// every hop on a connector bulges to the same side of its travel direction.
// Segments without crossings are copied as straight lines.
//
// Crossings close enough for their windows to overlap get independent,
// overlapping arcs. A path with no segments is returned as a bare MoveTo.
// The start and end of the result are exactly raw's first and last points.
func InsertHops(raw Polyline, xs []Intersection, m Metrics) Path {
	if len(raw) == 0 {
		return nil
	}
	path := Path{{Kind: MoveTo, To: raw[0]}}
	if raw.Segments() == 0 {
		return path
	}

	bySegment := make(map[int][]Intersection, len(xs))
	for _, x := range xs {
		bySegment[x.Segment] = append(bySegment[x.Segment], x)
	}

	for i := 0; i < raw.Segments(); i++ {
		a, b := raw.Segment(i)
		hits := bySegment[i]
		if len(hits) == 0 {
			path = append(path, Op{Kind: LineTo, To: b})
			continue
		}
		slices.SortStableFunc(hits, func(x, y Intersection) int { return cmp.Compare(x.T, y.T) })

		normal := b.Sub(a).Unit().Perp()
		end := 0.0
		for _, x := range hits {
			t0 := math.Max(0, x.T-m.HopWindow)
			t1 := math.Min(1, x.T+m.HopWindow)
			if t0 > 0 {
				path = append(path, Op{Kind: LineTo, To: pointOn(a, b, t0)})
			}
			ctrl := geom.Lerp(a, b, x.T).Add(normal.Scale(m.HopHeight))
			path = append(path, Op{Kind: QuadTo, Ctrl: ctrl, To: pointOn(a, b, t1)})
			end = t1
		}
		if end < 1 {
			path = append(path, Op{Kind: LineTo, To: b})
		}
	}
	return path
}

// pointOn is geom.Lerp that returns the exact segment endpoints at t=0 and
// t=1, so clamped windows never perturb the path's end coordinates.
func pointOn(a, b geom.Point, t float64) geom.Point {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	default:
		return geom.Lerp(a, b, t)
	}
}
