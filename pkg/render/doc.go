// Package render provides the output surfaces for routed ER diagrams.
//
// # Overview
//
// The connector package produces geometry; the subpackages here turn that
// geometry into something a viewer or another tool can consume:
//
//   - [svg]: standalone SVG with entities, connectors, hop arcs and
//     crow's-foot symbols
//   - [dot]: Graphviz DOT with pinned entity positions and native
//     crow's-foot arrowheads, optionally rendered to SVG by Graphviz
//   - [jsonout]: a JSON geometry document for downstream renderers
//
// This package holds what they share: the [Extent] of a routed diagram, so
// every surface frames the same drawing.
//
//	geoms, _ := connector.New().ComputeAll(ctx, d)
//	svg := svg.RenderSVG(d, geoms, svg.WithLabels())
//
// [svg]: github.com/matzehuels/erwire/pkg/render/svg
// [dot]: github.com/matzehuels/erwire/pkg/render/dot
// [jsonout]: github.com/matzehuels/erwire/pkg/render/jsonout
package render
