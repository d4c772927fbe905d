package ortho

import (
	"context"
	"testing"

	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
)

func TestRouteEmptyGraph(t *testing.T) {
	res, err := Route(context.Background(), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(res.Positions) != 0 || len(res.Polylines) != 0 {
		t.Errorf("empty graph produced positions or polylines")
	}
}

func TestRouteNoEdges(t *testing.T) {
	positions := []geom.Vec2{geom.V(0, 0), geom.V(100, 0)}
	sizes := []graph.Size{{W: 20, H: 10}, {W: 20, H: 10}}
	res, err := Route(context.Background(), positions, sizes, nil, nil)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(res.Polylines) != 0 {
		t.Errorf("polylines = %d, want 0", len(res.Polylines))
	}
	if res.ChannelCount == 0 {
		t.Error("channels should be built even without edges")
	}
	for i, p := range positions {
		if res.Positions[i] != p {
			t.Errorf("node %d moved without any routing pressure", i)
		}
	}
}

func TestRouteFullPipeline(t *testing.T) {
	positions := []geom.Vec2{
		geom.V(20, 20),
		geom.V(70, 22),
		geom.V(20, 38),
		geom.V(70, 40),
		geom.V(40, 60),
	}
	sizes := []graph.Size{
		{W: 30, H: 10},
		{W: 30, H: 10},
		{W: 25, H: 10},
		{W: 35, H: 10},
		{W: 55, H: 10},
	}
	const hiddenTag = 7
	edges := []graph.Edge{
		{From: 0, To: 1},
		{From: 0, To: 3},
		{From: 0, To: 4},
		{From: 2, To: 3},
		{From: 1, To: 4},
		{From: 1, To: 3},
		{From: 2, To: 4},
		{From: 2, To: 2},                 // self edge, skipped
		{From: 0, To: 2, Tag: hiddenTag}, // hidden, skipped
	}

	res, err := Route(context.Background(), positions, sizes, edges, graph.NewTagSet(hiddenTag))
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if len(res.Edges) != 7 {
		t.Fatalf("routed edges = %d, want 7", len(res.Edges))
	}
	for _, idx := range res.Edges {
		if idx == 7 || idx == 8 {
			t.Errorf("self or hidden edge %d was routed", idx)
		}
	}
	if len(res.Polylines) != len(res.Edges) {
		t.Fatalf("polylines = %d, want %d", len(res.Polylines), len(res.Edges))
	}
	if len(res.Positions) != len(positions) {
		t.Fatalf("positions = %d, want %d", len(res.Positions), len(positions))
	}
	if res.ChannelCount != 7 {
		t.Errorf("channels = %d, want 7", res.ChannelCount)
	}

	// Rebuild the final boxes from the returned centers; resizing may have
	// moved them but never changes their size.
	boxes := make([]geom.Rect, len(positions))
	for i, p := range res.Positions {
		boxes[i] = geom.RectFromCenterSize(p, sizes[i].W, sizes[i].H)
	}

	for i, points := range res.Polylines {
		if len(points) < 2 {
			t.Fatalf("polyline %d has %d points", i, len(points))
		}
		assertRectilinear(t, points)

		edge := edges[res.Edges[i]]
		if !onBoundary(points[0], boxes[edge.From]) {
			t.Errorf("polyline %d does not start on box %d: %v", i, edge.From, points[0])
		}
		if !onBoundary(points[len(points)-1], boxes[edge.To]) {
			t.Errorf("polyline %d does not end on box %d: %v", i, edge.To, points[len(points)-1])
		}
	}
}

func onBoundary(p geom.Vec2, box geom.Rect) bool {
	const eps = 1e-9
	within := func(v, lo, hi float64) bool { return v >= lo-eps && v <= hi+eps }
	near := func(a, b float64) bool { d := a - b; return d >= -eps && d <= eps }
	if (near(p.X, box.Min.X) || near(p.X, box.Max.X)) && within(p.Y, box.Min.Y, box.Max.Y) {
		return true
	}
	return (near(p.Y, box.Min.Y) || near(p.Y, box.Max.Y)) && within(p.X, box.Min.X, box.Max.X)
}
