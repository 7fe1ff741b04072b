// Package diagram defines the entity-relationship diagram model consumed by
// the connector router: entities (nodes) with fixed positions and sizes, and
// relationships (edges) between named anchors on those entities.
//
// # Nodes
//
// A [Node] is an axis-aligned rectangle. Position is its top-left corner; a
// zero or negative size falls back to [DefaultWidth]×[DefaultHeight].
//
// # Anchors
//
// Connectors attach to one of the four node faces ([Side]). Each side has a
// fixed outward direction:
//
//	top    270°  (0,-1)
//	right    0°  (1, 0)
//	bottom  90°  (0, 1)
//	left   180°  (-1,0)
//
// Anchor names are parsed by [ParseAnchor]. Besides the plain side names it
// accepts sub-positions such as "top-left" or "right-end" which slide the
// connection point along the face without changing its direction.
//
// # Relationships
//
// An [Edge] carries a relationship type string and per-end optionality. The
// type is resolved to a [Relationship] class, which in turn yields the
// [Multiplicity] of each end.
package diagram
