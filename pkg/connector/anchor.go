package connector

import (
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/geom"
)

// Endpoint is a resolved connector end.
type Endpoint struct {
	NodeID   string       `json:"node_id"`
	Point    geom.Point   `json:"point"`
	Dir      geom.Point   `json:"dir"`
	Side     diagram.Side `json:"side"`
	Resolved bool         `json:"resolved"`
	// Fallback is set when the anchor name was not recognized and the side
	// was inferred from the node positions.
	Fallback bool `json:"fallback,omitempty"`
}

// ResolveAnchor maps a node id and anchor name to a connection point and the
// anchor's canonical outward direction.
//
// An unknown node id yields the origin with a zero direction and
// Resolved=false; the caller is expected to log it and keep going. An
// unknown anchor name falls back to the side facing peerID's center, using
// that side's midpoint and direction. If the peer cannot be located either,
// the right side is used.
func ResolveAnchor(nodes map[string]diagram.Node, nodeID, anchor, peerID string) Endpoint {
	n, ok := nodes[nodeID]
	if !ok {
		return Endpoint{NodeID: nodeID}
	}
	bounds := n.Bounds()

	a, ok := diagram.ParseAnchor(anchor)
	fallback := !ok
	if fallback {
		a = diagram.Anchor{Side: fallbackSide(bounds, nodes, nodeID, peerID), Fraction: 0.5}
	}

	return Endpoint{
		NodeID:   nodeID,
		Point:    a.Point(bounds),
		Dir:      a.Side.Direction(),
		Side:     a.Side,
		Resolved: true,
		Fallback: fallback,
	}
}

// fallbackSide picks the face of bounds that points at the peer's center.
func fallbackSide(bounds diagram.Rect, nodes map[string]diagram.Node, nodeID, peerID string) diagram.Side {
	peer, ok := nodes[peerID]
	if !ok || peerID == nodeID {
		return diagram.SideRight
	}
	side := diagram.SideToward(peer.Bounds().Center().Sub(bounds.Center()))
	if side == diagram.SideNone {
		return diagram.SideRight
	}
	return side
}
