package connector

import (
	"strings"

	"github.com/matzehuels/erwire/pkg/diagram"
)

// relationshipSeparator marks a relationship string that is already in the
// internal "X-to-Y" form.
const relationshipSeparator = "-"

var externalRelationships = map[string]diagram.Relationship{
	"OneToOne":   diagram.OneToOne,
	"OneToMany":  diagram.OneToMany,
	"ManyToOne":  diagram.ManyToOne,
	"ManyToMany": diagram.ManyToMany,
}

// NormalizeRelationship maps an external relationship type ("OneToMany") to
// the internal class ("One-to-Many"). Input that already contains the
// separator is returned unchanged, which makes the mapping idempotent.
// Unknown types map to the empty Relationship.
func NormalizeRelationship(s string) diagram.Relationship {
	if strings.Contains(s, relationshipSeparator) {
		return diagram.Relationship(s)
	}
	return externalRelationships[s]
}

// EdgeCardinality resolves the cardinality of e from its relationship type
// and optionality flags. ok is false when the type is missing or unknown.
func EdgeCardinality(e diagram.Edge) (diagram.Cardinality, bool) {
	src, dst, ok := NormalizeRelationship(e.Type).Ends()
	if !ok {
		return diagram.Cardinality{}, false
	}
	return diagram.Cardinality{
		Source: diagram.End{Multiplicity: src, Optional: e.SourceOptional},
		Target: diagram.End{Multiplicity: dst, Optional: e.TargetOptional},
	}, true
}
