package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/erwire/pkg/diagram"
	"github.com/matzehuels/erwire/pkg/geom"
)

func testNodes() map[string]diagram.Node {
	return map[string]diagram.Node{
		"a": {ID: "a", Position: geom.Pt(0, 0), Size: diagram.Size{Width: 200, Height: 150}},
		"b": {ID: "b", Position: geom.Pt(500, 20)},
		"c": {ID: "c", Position: geom.Pt(0, 400), Size: diagram.Size{Width: 100, Height: 60}},
	}
}

func TestResolveAnchor(t *testing.T) {
	t.Parallel()

	nodes := testNodes()
	tests := []struct {
		name     string
		node     string
		anchor   string
		peer     string
		want     geom.Point
		wantSide diagram.Side
		fallback bool
	}{
		{"right", "a", "right", "b", geom.Pt(200, 75), diagram.SideRight, false},
		{"left", "a", "left", "b", geom.Pt(0, 75), diagram.SideLeft, false},
		{"top", "a", "top", "b", geom.Pt(100, 0), diagram.SideTop, false},
		{"bottom", "a", "bottom", "b", geom.Pt(100, 150), diagram.SideBottom, false},
		{"role suffix", "a", "right-source", "b", geom.Pt(200, 75), diagram.SideRight, false},
		{"default size", "b", "left", "a", geom.Pt(500, 95), diagram.SideLeft, false},
		{"unknown anchor faces peer", "a", "weird", "b", geom.Pt(200, 75), diagram.SideRight, true},
		{"empty anchor faces peer", "b", "", "a", geom.Pt(500, 95), diagram.SideLeft, true},
		{"unknown anchor below", "a", "??", "c", geom.Pt(100, 150), diagram.SideBottom, true},
		{"unknown anchor no peer", "a", "??", "ghost", geom.Pt(200, 75), diagram.SideRight, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAnchor(nodes, tt.node, tt.anchor, tt.peer)
			assert.True(t, got.Resolved)
			assert.Equal(t, tt.want, got.Point)
			assert.Equal(t, tt.wantSide, got.Side)
			assert.Equal(t, tt.wantSide.Direction(), got.Dir)
			assert.Equal(t, tt.fallback, got.Fallback)
		})
	}
}

func TestResolveAnchorMissingNode(t *testing.T) {
	t.Parallel()

	got := ResolveAnchor(testNodes(), "ghost", "right", "a")
	assert.False(t, got.Resolved)
	assert.Equal(t, "ghost", got.NodeID)
	assert.Equal(t, geom.Point{}, got.Point)
	assert.True(t, got.Dir.IsZero())
	assert.Equal(t, diagram.SideNone, got.Side)
}
