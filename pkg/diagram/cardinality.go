package diagram

// Multiplicity is the "how many" half of a relationship end.
type Multiplicity int

const (
	// MultiplicityUnknown marks an end whose relationship type did not resolve.
	MultiplicityUnknown Multiplicity = iota
	One
	Many
)

// String returns "one", "many" or "unknown".
func (m Multiplicity) String() string {
	switch m {
	case One:
		return "one"
	case Many:
		return "many"
	default:
		return "unknown"
	}
}

// End describes one end of a relationship.
type End struct {
	Multiplicity Multiplicity `json:"multiplicity"`
	Optional     bool         `json:"optional,omitempty"`
}

// Cardinality pairs the source and target ends of a relationship.
type Cardinality struct {
	Source End `json:"source"`
	Target End `json:"target"`
}

// Class returns the relationship class implied by the end multiplicities.
func (c Cardinality) Class() Relationship {
	return ClassOf(c.Source.Multiplicity, c.Target.Multiplicity)
}

// Relationship is the internal relationship class. Values use the
// "X-to-Y" form; the dash separator distinguishes them from external
// "XToY" type names.
type Relationship string

const (
	OneToOne   Relationship = "One-to-One"
	OneToMany  Relationship = "One-to-Many"
	ManyToOne  Relationship = "Many-to-One"
	ManyToMany Relationship = "Many-to-Many"
)

// Relationships lists the four known classes.
var Relationships = []Relationship{OneToOne, OneToMany, ManyToOne, ManyToMany}

// Ends returns the source and target multiplicities of r. Anything other than
// the four known classes reports ok=false.
func (r Relationship) Ends() (src, dst Multiplicity, ok bool) {
	switch r {
	case OneToOne:
		return One, One, true
	case OneToMany:
		return One, Many, true
	case ManyToOne:
		return Many, One, true
	case ManyToMany:
		return Many, Many, true
	}
	return MultiplicityUnknown, MultiplicityUnknown, false
}

// Known reports whether r is one of the four relationship classes.
func (r Relationship) Known() bool {
	_, _, ok := r.Ends()
	return ok
}

// ClassOf returns the relationship class for a pair of multiplicities, or the
// empty Relationship if either is unknown.
func ClassOf(src, dst Multiplicity) Relationship {
	switch {
	case src == One && dst == One:
		return OneToOne
	case src == One && dst == Many:
		return OneToMany
	case src == Many && dst == One:
		return ManyToOne
	case src == Many && dst == Many:
		return ManyToMany
	}
	return ""
}
