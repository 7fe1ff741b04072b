// Package pkg provides the core libraries for erwire connector routing.
//
// # Overview
//
// erwire draws the relationship connectors of an entity-relationship
// diagram. Entity boxes are already placed; for every relationship it
// resolves the two anchor points, builds an orthogonal path between them,
// inserts hop arcs where the path crosses an earlier connector, and places
// the crow's-foot symbols that encode cardinality at both ends.
//
// # Architecture
//
// The typical data flow:
//
//	diagram file (JSON, YAML, TOML)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [connector] package (anchors → path → crossings → hops → notation)
//	         ↓
//	    [render] packages (SVG, JSON, DOT, Graphviz SVG)
//
// [pipeline] ties these together with caching and is shared by the CLI and
// the HTTP service.
//
// # Quick Start
//
//	d, _ := io.ImportDiagram("shop.yaml")
//	geoms, _ := connector.New().ComputeAll(ctx, *d)
//	out := svg.RenderSVG(d, geoms, svg.WithLabels())
//
// Route a single connector without a router:
//
//	g, err := connector.Compute(d.Nodes, d.Edges, "users_orders")
//
// # Main Packages
//
// [geom] - Points and vector arithmetic.
//
// [diagram] - Entities, relationships, sides and cardinalities.
//
// [connector] - The routing engine. Each step is exposed on its own
// ([connector.ResolveAnchor], [connector.FindIntersections],
// [connector.InsertHops], [connector.Notation]) and composed by
// [connector.Router].
//
// [render] - Output surfaces and the shared drawing extent.
//
// [cache] - File, Redis and null caches keyed by content hashes.
//
// [observability] - Hooks for routing, rendering, cache and HTTP events.
//
// [errors] - Coded errors shared by the CLI and the HTTP service.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/geom
// [diagram]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/diagram
// [connector]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/connector
// [render]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/erwire/pkg/errors
package pkg
