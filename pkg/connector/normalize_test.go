package connector

import (
	"testing"

	"github.com/matzehuels/erwire/pkg/diagram"
)

func TestNormalizeRelationship(t *testing.T) {
	tests := []struct {
		in   string
		want diagram.Relationship
	}{
		{"OneToOne", diagram.OneToOne},
		{"OneToMany", diagram.OneToMany},
		{"ManyToOne", diagram.ManyToOne},
		{"ManyToMany", diagram.ManyToMany},
		{"Many-to-Many", diagram.ManyToMany},
		{"One-to-Many", diagram.OneToMany},
		{"Some-thing", diagram.Relationship("Some-thing")},
		{"", ""},
		{"oneToMany", ""},
		{"Association", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeRelationship(tt.in); got != tt.want {
				t.Errorf("NormalizeRelationship(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeRelationshipIdempotent(t *testing.T) {
	for _, in := range []string{"OneToOne", "ManyToOne", "One-to-One", "Many-to-Many"} {
		once := NormalizeRelationship(in)
		if twice := NormalizeRelationship(string(once)); twice != once {
			t.Errorf("NormalizeRelationship not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestEdgeCardinality(t *testing.T) {
	tests := []struct {
		name   string
		edge   diagram.Edge
		want   diagram.Cardinality
		wantOK bool
	}{
		{
			name: "external type with optional source",
			edge: diagram.Edge{Type: "OneToMany", SourceOptional: true},
			want: diagram.Cardinality{
				Source: diagram.End{Multiplicity: diagram.One, Optional: true},
				Target: diagram.End{Multiplicity: diagram.Many},
			},
			wantOK: true,
		},
		{
			name: "internal type with optional target",
			edge: diagram.Edge{Type: "Many-to-One", TargetOptional: true},
			want: diagram.Cardinality{
				Source: diagram.End{Multiplicity: diagram.Many},
				Target: diagram.End{Multiplicity: diagram.One, Optional: true},
			},
			wantOK: true,
		},
		{name: "missing type", edge: diagram.Edge{}},
		{name: "unknown dashed type", edge: diagram.Edge{Type: "Few-to-Some"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EdgeCardinality(tt.edge)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("EdgeCardinality() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
