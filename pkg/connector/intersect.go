package connector

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/erwire/pkg/geom"
)

// Intersection is a crossing between a segment of the connector being
// computed and a segment of a peer connector.
type Intersection struct {
	Segment int        `json:"segment"` // index of the own segment
	Point   geom.Point `json:"point"`
	T       float64    `json:"t"` // parameter on the own segment
	U       float64    `json:"u"` // parameter on the peer segment
	PeerID  string     `json:"peer_id,omitempty"`
}

// Peer is another connector's raw polyline.
type Peer struct {
	ID   string
	Path Polyline
}

// SegmentIntersection intersects segment a1→a2 with b1→b2 using the
// parametric line-line solution:
//
//	denom = (x1-x2)(y3-y4) - (y1-y2)(x3-x4)
//	t     = ((x1-x3)(y3-y4) - (y1-y3)(x3-x4)) / denom
//	u     = -((x1-x2)(y1-y3) - (y1-y2)(x1-x3)) / denom
//
// Parallel and collinear segments (|denom| < eps) never intersect. ok is true
// iff both t and u lie in [0, 1].
func SegmentIntersection(a1, a2, b1, b2 geom.Point, eps float64) (p geom.Point, t, u float64, ok bool) {
	x1, y1, x2, y2 := a1.X, a1.Y, a2.X, a2.Y
	x3, y3, x4, y4 := b1.X, b1.Y, b2.X, b2.Y

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < eps {
		return geom.Point{}, 0, 0, false
	}

	t = ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	u = -((x1-x2)*(y1-y3) - (y1-y2)*(x1-x3)) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return geom.Point{}, t, u, false
	}
	return geom.Lerp(a1, a2, t), t, u, true
}

// FindIntersections tests every segment of own against every segment of
// every peer and returns the interior crossings: only hits with t strictly
// inside (IntersectMinT, IntersectMaxT) on the own segment are kept, which
// drops the false positives at shared corners and endpoints.
//
// Results are ordered by own segment, then t, then peer id.
func FindIntersections(own Polyline, peers []Peer, m Metrics) []Intersection {
	var out []Intersection
	for i := 0; i < own.Segments(); i++ {
		a1, a2 := own.Segment(i)
		if a1.Eq(a2) {
			continue
		}
		for _, peer := range peers {
			for j := 0; j < peer.Path.Segments(); j++ {
				b1, b2 := peer.Path.Segment(j)
				p, t, u, ok := SegmentIntersection(a1, a2, b1, b2, m.ParallelEpsilon)
				if !ok || t <= m.IntersectMinT || t >= m.IntersectMaxT {
					continue
				}
				out = append(out, Intersection{Segment: i, Point: p, T: t, U: u, PeerID: peer.ID})
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Intersection) int {
		if c := cmp.Compare(a.Segment, b.Segment); c != 0 {
			return c
		}
		if c := cmp.Compare(a.T, b.T); c != 0 {
			return c
		}
		return cmp.Compare(a.PeerID, b.PeerID)
	})
	return out
}
