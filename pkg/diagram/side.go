package diagram

import "github.com/matzehuels/erwire/pkg/geom"

// Side identifies a node face a connector attaches to.
type Side int

const (
	// SideNone marks an unresolved side.
	SideNone Side = iota
	SideTop
	SideRight
	SideBottom
	SideLeft
)

// sideTable holds the canonical name, outward angle and unit direction of
// every side. Directions are exact so offsets never pick up rounding noise.
var sideTable = [...]struct {
	name  string
	angle float64
	dir   geom.Point
}{
	SideNone:   {"none", 0, geom.Point{}},
	SideTop:    {"top", 270, geom.Pt(0, -1)},
	SideRight:  {"right", 0, geom.Pt(1, 0)},
	SideBottom: {"bottom", 90, geom.Pt(0, 1)},
	SideLeft:   {"left", 180, geom.Pt(-1, 0)},
}

// String returns the canonical side name.
func (s Side) String() string {
	if s < 0 || int(s) >= len(sideTable) {
		return "unknown"
	}
	return sideTable[s].name
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a side name; unknown names decode to SideNone.
func (s *Side) UnmarshalText(b []byte) error {
	*s = sideNames[string(b)]
	return nil
}

// Angle returns the outward direction in degrees.
func (s Side) Angle() float64 {
	if s < 0 || int(s) >= len(sideTable) {
		return 0
	}
	return sideTable[s].angle
}

// Direction returns the outward unit vector. SideNone yields the zero vector.
func (s Side) Direction() geom.Point {
	if s < 0 || int(s) >= len(sideTable) {
		return geom.Point{}
	}
	return sideTable[s].dir
}

// IsHorizontal reports whether connectors leave this side horizontally
// (left and right faces).
func (s Side) IsHorizontal() bool { return s == SideLeft || s == SideRight }

// IsVertical reports whether connectors leave this side vertically
// (top and bottom faces).
func (s Side) IsVertical() bool { return s == SideTop || s == SideBottom }

// Opposite returns the facing side.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return s
	}
}

// SideToward returns the side of a node whose outward direction best matches
// the vector v, preferring the horizontal faces on ties. The zero vector
// yields SideNone.
func SideToward(v geom.Point) Side {
	ax, ay := v.X, v.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	switch {
	case ax == 0 && ay == 0:
		return SideNone
	case ax >= ay && v.X > 0:
		return SideRight
	case ax >= ay:
		return SideLeft
	case v.Y > 0:
		return SideBottom
	default:
		return SideTop
	}
}
