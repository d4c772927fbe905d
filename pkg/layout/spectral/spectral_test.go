package spectral

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
)

// two triangles joined by a bridge at 2-3
var bridgeEdges = []graph.Edge{
	{From: 0, To: 1}, {From: 0, To: 2}, {From: 1, To: 2},
	{From: 2, To: 3},
	{From: 3, To: 4}, {From: 3, To: 5}, {From: 4, To: 5},
}

func TestLayoutSeparatesClusters(t *testing.T) {
	nodes := []int{0, 1, 2, 3, 4, 5}
	positions := make([]geom.Vec2, 6)

	out, err := Layout(context.Background(), nodes, positions, bridgeEdges, nil)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	for i, p := range out {
		if !p.IsFinite() {
			t.Fatalf("node %d has non-finite position %v", i, p)
		}
	}

	// Triangle members must end up closer to each other than to the
	// opposite triangle's members.
	intra := out[0].Sub(out[1]).Len()
	inter := out[0].Sub(out[4]).Len()
	if intra >= inter {
		t.Errorf("intra-cluster distance %v >= inter-cluster distance %v", intra, inter)
	}

	// The embedding is symmetric in the bridge, so the two triangles sit
	// on opposite sides of the origin along the first axis.
	if (out[0].X < 0) == (out[4].X < 0) {
		t.Errorf("triangles on the same side: %v and %v", out[0], out[4])
	}
}

func TestLayoutFewNodesIsNoop(t *testing.T) {
	positions := []geom.Vec2{geom.V(1, 2), geom.V(3, 4)}

	out, err := Layout(context.Background(), []int{0}, positions, nil, nil)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	for i := range positions {
		if out[i] != positions[i] {
			t.Errorf("node %d moved from %v to %v", i, positions[i], out[i])
		}
	}
}

func TestLayoutIgnoresHiddenEdges(t *testing.T) {
	nodes := []int{0, 1, 2, 3}
	positions := make([]geom.Vec2, 4)
	edges := []graph.Edge{
		{From: 0, To: 1},
		{From: 1, To: 2},
		{From: 2, To: 3, Tag: 5},
	}

	withEdge, err := Layout(context.Background(), nodes, positions, edges, nil)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	withoutEdge, err := Layout(context.Background(), nodes, positions, edges, graph.NewTagSet(5))
	if err != nil {
		t.Fatalf("Layout hidden: %v", err)
	}

	same := true
	for i := range withEdge {
		if withEdge[i] != withoutEdge[i] {
			same = false
		}
	}
	if same {
		t.Error("hiding an edge did not change the embedding")
	}
}

func TestRescale(t *testing.T) {
	pos := mat.NewDense(3, 2, []float64{
		1, 10,
		3, 20,
		5, 60,
	})
	rescale(pos, 1.0)

	n, d := pos.Dims()
	for j := 0; j < d; j++ {
		mean := 0.0
		for i := 0; i < n; i++ {
			mean += pos.At(i, j)
		}
		if math.Abs(mean) > 1e-9 {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
	}

	lim := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			lim = math.Max(lim, math.Abs(pos.At(i, j)))
		}
	}
	if math.Abs(lim-1.0) > 1e-9 {
		t.Errorf("max abs coordinate = %v, want 1", lim)
	}
}

func TestCoordsFromLaplacianRejectsBadDim(t *testing.T) {
	lap := laplacian(mat.NewSymDense(3, nil))
	if _, err := coordsFromLaplacian(lap, 0); err == nil {
		t.Error("dim 0 accepted")
	}
	if _, err := coordsFromLaplacian(lap, 3); err == nil {
		t.Error("dim == n accepted")
	}
}
