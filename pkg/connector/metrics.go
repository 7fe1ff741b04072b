package connector

import "github.com/matzehuels/erwire/pkg/errors"

// Metrics holds every distance and threshold shared by path building, hop
// insertion and notation. One value is threaded through all of them so the
// symbols line up with the offset legs of the routed path.
type Metrics struct {
	// Routing
	PerpendicularOffset float64 `json:"perpendicular_offset" toml:"perpendicular_offset"`

	// Intersections and hops
	IntersectMinT   float64 `json:"intersect_min_t" toml:"intersect_min_t"`
	IntersectMaxT   float64 `json:"intersect_max_t" toml:"intersect_max_t"`
	ParallelEpsilon float64 `json:"parallel_epsilon" toml:"parallel_epsilon"`
	HopWindow       float64 `json:"hop_window" toml:"hop_window"`
	HopHeight       float64 `json:"hop_height" toml:"hop_height"`

	// Notation
	SymbolHalfWidth        float64 `json:"symbol_half_width" toml:"symbol_half_width"`
	OneLineOffsetOptional  float64 `json:"one_line_offset_optional" toml:"one_line_offset_optional"`
	OneLineOffsetMandatory float64 `json:"one_line_offset_mandatory" toml:"one_line_offset_mandatory"`
	MandatoryLineSpacing   float64 `json:"mandatory_line_spacing" toml:"mandatory_line_spacing"`
	CrowFootOffset         float64 `json:"crow_foot_offset" toml:"crow_foot_offset"`
	CrowFootLength         float64 `json:"crow_foot_length" toml:"crow_foot_length"`
	CrowFootSpread         float64 `json:"crow_foot_spread" toml:"crow_foot_spread"` // degrees
	ManyMandatoryLineGap   float64 `json:"many_mandatory_line_gap" toml:"many_mandatory_line_gap"`
	CircleRadius           float64 `json:"circle_radius" toml:"circle_radius"`
	CircleOffset           float64 `json:"circle_offset" toml:"circle_offset"`
	CircleCrowFootGap      float64 `json:"circle_crow_foot_gap" toml:"circle_crow_foot_gap"`
}

// DefaultMetrics returns the standard notation metrics.
func DefaultMetrics() Metrics {
	return Metrics{
		PerpendicularOffset: 30,

		IntersectMinT:   0.1,
		IntersectMaxT:   0.9,
		ParallelEpsilon: 1e-10,
		HopWindow:       0.15,
		HopHeight:       10,

		SymbolHalfWidth:        8,
		OneLineOffsetOptional:  16,
		OneLineOffsetMandatory: 12,
		MandatoryLineSpacing:   8,
		CrowFootOffset:         15,
		CrowFootLength:         11.5,
		CrowFootSpread:         40,
		ManyMandatoryLineGap:   4,
		CircleRadius:           4.86,
		CircleOffset:           8,
		CircleCrowFootGap:      6,
	}
}

// WithDefaults returns m with every zero field replaced by its default, so a
// partially filled config section only overrides what it names. A zero value
// therefore cannot be set explicitly; disable hops with WithoutHops instead of
// a zero HopHeight.
func (m Metrics) WithDefaults() Metrics {
	d := DefaultMetrics()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&m.PerpendicularOffset, d.PerpendicularOffset)
	fill(&m.IntersectMinT, d.IntersectMinT)
	fill(&m.IntersectMaxT, d.IntersectMaxT)
	fill(&m.ParallelEpsilon, d.ParallelEpsilon)
	fill(&m.HopWindow, d.HopWindow)
	fill(&m.HopHeight, d.HopHeight)
	fill(&m.SymbolHalfWidth, d.SymbolHalfWidth)
	fill(&m.OneLineOffsetOptional, d.OneLineOffsetOptional)
	fill(&m.OneLineOffsetMandatory, d.OneLineOffsetMandatory)
	fill(&m.MandatoryLineSpacing, d.MandatoryLineSpacing)
	fill(&m.CrowFootOffset, d.CrowFootOffset)
	fill(&m.CrowFootLength, d.CrowFootLength)
	fill(&m.CrowFootSpread, d.CrowFootSpread)
	fill(&m.ManyMandatoryLineGap, d.ManyMandatoryLineGap)
	fill(&m.CircleRadius, d.CircleRadius)
	fill(&m.CircleOffset, d.CircleOffset)
	fill(&m.CircleCrowFootGap, d.CircleCrowFootGap)
	return m
}

// Validate reports the first metric that would produce a broken drawing:
// a negative distance, or an intersection window that is empty or reaches
// outside the segment.
func (m Metrics) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"perpendicular_offset", m.PerpendicularOffset},
		{"intersect_min_t", m.IntersectMinT},
		{"intersect_max_t", m.IntersectMaxT},
		{"parallel_epsilon", m.ParallelEpsilon},
		{"hop_window", m.HopWindow},
		{"hop_height", m.HopHeight},
		{"symbol_half_width", m.SymbolHalfWidth},
		{"one_line_offset_optional", m.OneLineOffsetOptional},
		{"one_line_offset_mandatory", m.OneLineOffsetMandatory},
		{"mandatory_line_spacing", m.MandatoryLineSpacing},
		{"crow_foot_offset", m.CrowFootOffset},
		{"crow_foot_length", m.CrowFootLength},
		{"crow_foot_spread", m.CrowFootSpread},
		{"many_mandatory_line_gap", m.ManyMandatoryLineGap},
		{"circle_radius", m.CircleRadius},
		{"circle_offset", m.CircleOffset},
		{"circle_crow_foot_gap", m.CircleCrowFootGap},
	}
	for _, f := range fields {
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "metrics.%s must not be negative, got %g", f.name, f.v)
		}
	}
	if m.IntersectMinT >= m.IntersectMaxT {
		return errors.New(errors.ErrCodeInvalidInput, "metrics.intersect_min_t (%g) must be less than intersect_max_t (%g)", m.IntersectMinT, m.IntersectMaxT)
	}
	if m.IntersectMaxT > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "metrics.intersect_max_t must be at most 1, got %g", m.IntersectMaxT)
	}
	return nil
}
