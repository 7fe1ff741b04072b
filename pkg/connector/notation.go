package connector

import (
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/geom"
)

// SymbolKind identifies a notation primitive.
type SymbolKind string

const (
	SymbolLine     SymbolKind = "line"
	SymbolCircle   SymbolKind = "circle"
	SymbolCrowFoot SymbolKind = "crowfoot"
)

// EndRole says which end of the connector a symbol decorates.
type EndRole string

const (
	EndSource EndRole = "source"
	EndTarget EndRole = "target"
)

// Symbol is one notation primitive.
//
//   - line: Points holds the two endpoints
//   - circle: Center and Radius
//   - crowfoot: Points holds the shared base followed by the central, left
//     and right prong tips
type Symbol struct {
	Kind   SymbolKind   `json:"kind"`
	End    EndRole      `json:"end"`
	Points []geom.Point `json:"points,omitempty"`
	Center geom.Point   `json:"center,omitzero"`
	Radius float64      `json:"radius,omitempty"`
}

// Notation returns the crow's-foot symbols for both ends of a connector.
// Placement uses only the raw connection points and the canonical anchor
// directions, never the routed path.
func Notation(src, dst Endpoint, c diagram.Cardinality, m Metrics) []Symbol {
	out := EndSymbols(src, c.Source, EndSource, m)
	return append(out, EndSymbols(dst, c.Target, EndTarget, m)...)
}

// EndSymbols returns the symbols for one end:
//
//	One,  optional   circle + single line
//	One,  mandatory  two parallel lines
//	Many, optional   crow's-foot + circle
//	Many, mandatory  crow's-foot + bar line
//
// An endpoint without a direction (unresolved node) or an end with an
// unknown multiplicity gets no symbols.
func EndSymbols(ep Endpoint, end diagram.End, role EndRole, m Metrics) []Symbol {
	if ep.Dir.IsZero() {
		return nil
	}
	n := notationFrame{origin: ep.Point, dir: ep.Dir, role: role, m: m}

	switch end.Multiplicity {
	case diagram.One:
		if end.Optional {
			return []Symbol{
				n.circle(m.CircleOffset),
				n.line(m.OneLineOffsetOptional),
			}
		}
		return []Symbol{
			n.line(m.OneLineOffsetMandatory),
			n.line(m.OneLineOffsetMandatory + m.MandatoryLineSpacing),
		}

	case diagram.Many:
		if end.Optional {
			return []Symbol{
				n.crowFoot(),
				n.circle(m.CrowFootOffset + m.CircleCrowFootGap),
			}
		}
		return []Symbol{
			n.crowFoot(),
			n.line(m.CrowFootOffset + m.ManyMandatoryLineGap),
		}
	}
	return nil
}

// notationFrame places symbols at distances along an anchor direction.
type notationFrame struct {
	origin geom.Point
	dir    geom.Point
	role   EndRole
	m      Metrics
}

func (n notationFrame) at(d float64) geom.Point {
	return n.origin.Add(n.dir.Scale(d))
}

// line is a bar perpendicular to the anchor direction, centered d along it.
func (n notationFrame) line(d float64) Symbol {
	c := n.at(d)
	half := n.dir.Perp().Scale(n.m.SymbolHalfWidth)
	return Symbol{Kind: SymbolLine, End: n.role, Points: []geom.Point{c.Sub(half), c.Add(half)}}
}

// circle is centered on the connector axis, d along the anchor direction.
func (n notationFrame) circle(d float64) Symbol {
	return Symbol{Kind: SymbolCircle, End: n.role, Center: n.at(d), Radius: n.m.CircleRadius}
}

// crowFoot fans three prongs from a base CrowFootOffset out from the entity
// back toward it: the central prong runs opposite the anchor direction and
// the outer prongs are ±CrowFootSpread from it.
func (n notationFrame) crowFoot() Symbol {
	base := n.at(n.m.CrowFootOffset)
	back := n.dir.Scale(-1) // anchor direction turned 180°
	prong := func(deg float64) geom.Point {
		return base.Add(back.Rotate(deg).Scale(n.m.CrowFootLength))
	}
	return Symbol{
		Kind:   SymbolCrowFoot,
		End:    n.role,
		Points: []geom.Point{base, prong(0), prong(-n.m.CrowFootSpread), prong(n.m.CrowFootSpread)},
	}
}
