package connector_test

import (
	"fmt"

	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/geom"
)

func ExampleCompute() {
	nodes := []diagram.Node{
		{ID: "users", Position: geom.Pt(0, 0), Size: diagram.Size{Width: 200, Height: 150}},
		{ID: "orders", Position: geom.Pt(400, 0), Size: diagram.Size{Width: 200, Height: 150}},
	}
	edges := []diagram.Edge{{
		ID: "users_orders", Source: "users", Target: "orders",
		SourceAnchor: "right", TargetAnchor: "left", Type: "OneToMany",
	}}

	g, err := connector.Compute(nodes, edges, "users_orders")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(g.Relationship)
	fmt.Println(g.Path.SVG())
	for _, s := range g.Symbols {
		fmt.Println(s.End, s.Kind)
	}
	// Output:
	// One-to-Many
	// M 200 75 L 230 75 L 370 75 L 400 75
	// source line
	// source line
	// target crowfoot
	// target line
}

func ExampleNormalizeRelationship() {
	fmt.Println(connector.NormalizeRelationship("ManyToOne"))
	fmt.Println(connector.NormalizeRelationship("Many-to-Many"))
	fmt.Printf("%q\n", connector.NormalizeRelationship("Association"))
	// Output:
	// Many-to-One
	// Many-to-Many
	// ""
}

func ExampleSegmentIntersection() {
	p, t, u, ok := connector.SegmentIntersection(
		geom.Pt(100, 100), geom.Pt(100, 200),
		geom.Pt(50, 150), geom.Pt(150, 150),
		1e-10,
	)
	fmt.Println(ok, p, t, u)
	// Output:
	// true (100,150) 0.5 0.5
}
