package dot

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
)

// pointsPerInch converts diagram units (points) to Graphviz node sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Labels includes relationship labels on edges.
	Labels bool
	// Splines is the Graphviz edge routing mode. Defaults to "ortho".
	Splines string
}

// ToDOT converts a routed diagram to Graphviz DOT.
//
// Entities are pinned at their diagram positions (neato, pos="x,y!") so
// Graphviz keeps the layout and only draws the edges. Graphviz's y axis
// points up, so y is negated. Each edge leaves from the compass port of its
// resolved anchor side and carries the crow's-foot state of both ends as
// native arrow shapes (see [ArrowFor]). Edges whose entities are missing
// are skipped.
func ToDOT(d *diagram.Diagram, geoms []connector.Geometry, opts Options) string {
	splines := opts.Splines
	if splines == "" {
		splines = "ortho"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph ER {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	fmt.Fprintf(&buf, "  splines=%s;\n", splines)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=14];\n")
	buf.WriteString("  edge [dir=both, arrowsize=1.2];\n")
	buf.WriteString("\n")

	nodes := slices.Clone(d.Nodes)
	slices.SortFunc(nodes, func(a, b diagram.Node) int { return cmp.Compare(a.ID, b.ID) })
	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	idx := d.NodeIndex()
	sorted := slices.Clone(geoms)
	slices.SortStableFunc(sorted, func(a, b connector.Geometry) int { return cmp.Compare(a.EdgeID, b.EdgeID) })
	for _, g := range sorted {
		if _, ok := idx[g.Source.NodeID]; !ok {
			continue
		}
		if _, ok := idx[g.Target.NodeID]; !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", g.Source.NodeID, g.Target.NodeID, strings.Join(edgeAttrs(g, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n diagram.Node) []string {
	b := n.Bounds()
	c := b.Center()
	return []string{
		fmt.Sprintf("label=%q", n.DisplayLabel()),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(c.X), fmtNum(-c.Y)),
		fmt.Sprintf("width=%s", fmtNum(b.W/pointsPerInch)),
		fmt.Sprintf("height=%s", fmtNum(b.H/pointsPerInch)),
	}
}

func edgeAttrs(g connector.Geometry, opts Options) []string {
	attrs := []string{fmt.Sprintf("id=%q", g.EdgeID)}
	if p := compass(g.Source.Side); p != "" {
		attrs = append(attrs, "tailport="+p)
	}
	if p := compass(g.Target.Side); p != "" {
		attrs = append(attrs, "headport="+p)
	}
	if g.Cardinality != nil && g.Kind == diagram.KindRelationship {
		attrs = append(attrs,
			"arrowtail="+ArrowFor(g.Cardinality.Source),
			"arrowhead="+ArrowFor(g.Cardinality.Target),
		)
	} else {
		attrs = append(attrs, "arrowtail=none", "arrowhead=none")
	}
	if opts.Labels && g.Label != "" {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", g.Label))
	}
	return attrs
}

// ArrowFor maps one relationship end to a Graphviz arrow shape. Shapes are
// listed from the entity outward:
//
//	One,  mandatory  teetee
//	One,  optional   teeodot
//	Many, mandatory  crowtee
//	Many, optional   crowodot
func ArrowFor(e diagram.End) string {
	switch {
	case e.Multiplicity == diagram.One && e.Optional:
		return "teeodot"
	case e.Multiplicity == diagram.One:
		return "teetee"
	case e.Multiplicity == diagram.Many && e.Optional:
		return "crowodot"
	case e.Multiplicity == diagram.Many:
		return "crowtee"
	}
	return "none"
}

func compass(s diagram.Side) string {
	switch s {
	case diagram.SideTop:
		return "n"
	case diagram.SideRight:
		return "e"
	case diagram.SideBottom:
		return "s"
	case diagram.SideLeft:
		return "w"
	}
	return ""
}

func fmtNum(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the SVG scales like the native renderer's output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
