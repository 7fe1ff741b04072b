// Package io provides import and export of ER diagrams in JSON, YAML and
// TOML.
//
// # Format
//
// All three encodings share one shape, a "nodes" and an "edges" array:
//
//	{
//	  "nodes": [
//	    {"id": "users",  "position": {"x": 0,   "y": 0}, "size": {"width": 200, "height": 150}},
//	    {"id": "orders", "position": {"x": 400, "y": 0}}
//	  ],
//	  "edges": [
//	    {"id": "users_orders", "source": "users", "target": "orders",
//	     "source_anchor": "right", "target_anchor": "left",
//	     "type": "OneToMany", "target_optional": true}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: Unique string identifier
//   - position: Top-left corner in diagram coordinates (y grows downward)
//
// Optional:
//   - size: Width and height (200×150 when omitted)
//   - label: Display text (defaults to the id)
//
// # Edge Fields
//
// Required:
//   - source, target: Node ids
//
// Optional:
//   - id: Generated when omitted (see below)
//   - source_anchor, target_anchor: Anchor names such as "right" or "top-left"
//   - type: "OneToOne", "OneToMany", "ManyToOne", "ManyToMany" or the dashed
//     "One-to-Many" form
//   - source_optional, target_optional: Optional participation per end
//   - label: Relationship label
//   - kind: Rendering kind; only edges of the same kind hop over each other
//
// # Edge IDs
//
// Edges without an id get a name-based UUID (SHA-1) derived from their
// endpoints, anchors and type. Importing the same file twice yields the same
// ids, so cache keys and references stay stable.
//
// # Import
//
// Use [ImportDiagram] to read a file (format chosen by extension), or
// [ReadDiagram] to read from any io.Reader:
//
//	d, err := io.ImportDiagram("schema.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both validate the result with [diagram.Diagram.Validate]. Problems are
// reported together as one INVALID_DIAGRAM error.
//
// # Export
//
// [WriteDiagram] encodes to any io.Writer, [ExportDiagram] writes a file.
// Output round-trips through [ReadDiagram].
package io
