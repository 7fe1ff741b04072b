// Package connector computes the geometry of relationship connectors in an
// entity-relationship diagram.
//
// For one edge, the router resolves both anchors to a connection point and a
// canonical outward direction, builds an orthogonal polyline between them,
// finds where that polyline crosses the other connectors of the same kind,
// splices small hop-over arcs into it at those crossings, and derives the
// crow's-foot symbols for each end.
//
// # Pipeline
//
//	ResolveAnchor ──► BuildPath ──► FindIntersections ──► InsertHops ──► Path
//	      │                              ▲
//	      │                              └── peers rebuilt with ResolveAnchor+BuildPath
//	      └──────────────► Notation ──► Symbols
//
// Peers are always rebuilt from their raw polyline, never from their
// hop-adjusted path, so two crossing connectors cannot feed back into each
// other. Symbols only depend on the raw connection point and the canonical
// anchor direction, so they stay put however the path is rerouted.
//
// # Determinism
//
// Every function here is pure. [Router] holds configuration only; node
// indexes are rebuilt on every call, so computing the same edge twice with
// the same inputs yields bit-identical output.
//
// # Complexity
//
// Intersection detection is O(E²·S²) over E connectors of S segments each.
// That is fine for diagrams with tens to low hundreds of relationships and is
// not meant for anything larger.
//
// # Usage
//
//	g, err := connector.Compute(d.Nodes, d.Edges, "orders_users")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(g.Path.SVG())
//	for _, s := range g.Symbols {
//	    fmt.Println(s.End, s.Kind)
//	}
package connector
