// Package dot exports routed ER diagrams as Graphviz DOT.
//
// # Overview
//
// The DOT output pins every entity at its diagram position and lets Graphviz
// draw the connectors with its own orthogonal router. Crow's-foot notation
// maps onto Graphviz's native arrow shapes (crow, tee, odot), so the result
// opens in any Graphviz tool and can be restyled there.
//
// # Usage
//
//	geoms, _ := connector.New().ComputeAll(ctx, d)
//	src := dot.ToDOT(d, geoms, dot.Options{Labels: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package dot
