package render

import (
	"strings"
	"testing"

	"github.com/san-kum/synapse/internal/graph"
)

func flatEdgeScene(active bool) *graph.Scene {
	a := &graph.Node{Pos: graph.Vec3{X: -15}}
	b := &graph.Node{Pos: graph.Vec3{X: 15}}
	return &graph.Scene{
		Bounds: graph.Bounds{W: 40, H: 28, D: 18},
		Nodes:  []*graph.Node{a, b},
		Edges:  []*graph.Edge{{From: a, To: b, Active: active}},
	}
}

func TestFlatInactiveEdgeIsSparser(t *testing.T) {
	r := NewFlat()
	if err := r.Init(80, 24); err != nil {
		t.Fatalf("Init: %v", err)
	}
	solid := strings.Count(r.Draw(flatEdgeScene(true)), "=")
	dots := strings.Count(r.Draw(flatEdgeScene(false)), ".")
	if solid == 0 || dots == 0 {
		t.Fatalf("both edges should draw, got solid=%d dots=%d", solid, dots)
	}
	if dots >= solid {
		t.Fatalf("inactive edge should skip cells: dots=%d solid=%d", dots, solid)
	}
}
