package diagram

import (
	"math"

	"github.com/matzehuels/erwire/pkg/errors"
	"github.com/matzehuels/erwire/pkg/geom"
)

// =============================================================================
// Constants
// =============================================================================

// Default entity size used when a node carries no usable size.
const (
	DefaultWidth  = 200.0
	DefaultHeight = 150.0
)

// KindRelationship is the rendering kind of connectors drawn with crow's-foot
// notation. Edges with an empty Kind belong to it.
const KindRelationship = "relationship"

// =============================================================================
// Node - Entity Box
// =============================================================================

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
}

// Node is an entity box with a fixed top-left position.
type Node struct {
	ID       string     `json:"id" yaml:"id" toml:"id"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Position geom.Point `json:"position" yaml:"position" toml:"position"`
	Size     Size       `json:"size,omitzero" yaml:"size,omitempty" toml:"size,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Bounds returns the node rectangle, substituting the default size for a
// missing or non-positive dimension.
func (n Node) Bounds() Rect {
	w, h := n.Size.Width, n.Size.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return Rect{X: n.Position.X, Y: n.Position.Y, W: w, H: h}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle center.
func (r Rect) Center() geom.Point { return geom.Pt(r.X+r.W/2, r.Y+r.H/2) }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.X+r.W, o.X+o.W)
	y1 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// =============================================================================
// Edge - Relationship Connector
// =============================================================================

// Edge is a relationship drawn between two node anchors.
type Edge struct {
	ID             string `json:"id" yaml:"id" toml:"id"`
	Source         string `json:"source" yaml:"source" toml:"source"`
	Target         string `json:"target" yaml:"target" toml:"target"`
	SourceAnchor   string `json:"source_anchor,omitempty" yaml:"source_anchor,omitempty" toml:"source_anchor,omitempty"`
	TargetAnchor   string `json:"target_anchor,omitempty" yaml:"target_anchor,omitempty" toml:"target_anchor,omitempty"`
	Type           string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"` // "OneToMany" or "One-to-Many"
	SourceOptional bool   `json:"source_optional,omitempty" yaml:"source_optional,omitempty" toml:"source_optional,omitempty"`
	TargetOptional bool   `json:"target_optional,omitempty" yaml:"target_optional,omitempty" toml:"target_optional,omitempty"`
	Label          string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Kind           string `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"` // rendering kind, defaults to "relationship"
}

// RenderKind returns the edge's rendering kind, defaulting to
// KindRelationship.
func (e Edge) RenderKind() string {
	if e.Kind == "" {
		return KindRelationship
	}
	return e.Kind
}

// =============================================================================
// Diagram - Node and Edge Collections
// =============================================================================

// Diagram is the full set of entities and relationships.
type Diagram struct {
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" toml:"edges"`
}

// NodeIndex builds a fresh id→node lookup. Later duplicates win.
func (d *Diagram) NodeIndex() map[string]Node {
	idx := make(map[string]Node, len(d.Nodes))
	for _, n := range d.Nodes {
		idx[n.ID] = n
	}
	return idx
}

// Node returns the node with the given id.
func (d *Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge returns the edge with the given id.
func (d *Diagram) Edge(id string) (Edge, bool) {
	if i := d.EdgeIndex(id); i >= 0 {
		return d.Edges[i], true
	}
	return Edge{}, false
}

// EdgeIndex returns the position of the first edge with the given id in
// d.Edges, or -1.
func (d *Diagram) EdgeIndex(id string) int {
	for i, e := range d.Edges {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Bounds returns the union of all node rectangles. An empty diagram yields
// the zero Rect.
func (d *Diagram) Bounds() Rect {
	if len(d.Nodes) == 0 {
		return Rect{}
	}
	r := d.Nodes[0].Bounds()
	for _, n := range d.Nodes[1:] {
		r = r.Union(n.Bounds())
	}
	return r
}

// Validate reports structural problems: invalid or duplicate ids, and edges
// referencing unknown nodes. All problems are collected into one
// errors.ValidationErrors.
//
// Dangling references are reported here for tooling, but the router itself
// tolerates them and degrades to a placeholder position.
func (d *Diagram) Validate() error {
	var v errors.ValidationErrors

	nodes := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := errors.ValidateID(n.ID); err != nil {
			v.Add(errors.ErrCodeInvalidID, "node %d: %s", i, errors.UserMessage(err))
			continue
		}
		if nodes[n.ID] {
			v.Add(errors.ErrCodeInvalidDiagram, "duplicate node id %q", n.ID)
		}
		nodes[n.ID] = true
	}

	edges := make(map[string]bool, len(d.Edges))
	for i, e := range d.Edges {
		if err := errors.ValidateID(e.ID); err != nil {
			v.Add(errors.ErrCodeInvalidID, "edge %d: %s", i, errors.UserMessage(err))
		} else if edges[e.ID] {
			v.Add(errors.ErrCodeInvalidDiagram, "duplicate edge id %q", e.ID)
		}
		edges[e.ID] = true

		if !nodes[e.Source] {
			v.Add(errors.ErrCodeInvalidDiagram, "edge %q: unknown source node %q", e.ID, e.Source)
		}
		if !nodes[e.Target] {
			v.Add(errors.ErrCodeInvalidDiagram, "edge %q: unknown target node %q", e.ID, e.Target)
		}
	}

	return v.Err()
}
