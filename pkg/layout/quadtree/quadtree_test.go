package quadtree

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gridwise/layoutkit/pkg/errors"
	"github.com/gridwise/layoutkit/pkg/geom"
)

// inverse-square test force, clamped near zero distance
func testForce(target geom.Vec2, source WeightedPoint) geom.Vec2 {
	dir := target.Sub(source.Pos)
	dist2 := math.Max(dir.LenSq(), 1e-4)
	mag := source.Mass / dist2
	l := dir.Len()
	if l == 0 {
		return geom.Vec2{}
	}
	return dir.Scale(mag / l)
}

func pairwise(items []WeightedPoint, target geom.Vec2) geom.Vec2 {
	var acc geom.Vec2
	for _, it := range items {
		if it.Pos == target {
			continue // skip self
		}
		acc = acc.Add(testForce(target, it))
	}
	return acc
}

func randomPoints(n int, seed uint64) []WeightedPoint {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	pts := make([]WeightedPoint, n)
	for i := range pts {
		pts[i] = WeightedPoint{
			Pos:  geom.V(rng.Float64()*200-100, rng.Float64()*200-100),
			Mass: 1 + rng.Float64()*4,
		}
	}
	return pts
}

func TestAccumulateApproximatesPairwise(t *testing.T) {
	tree := New(0.5)
	items := []WeightedPoint{
		{Pos: geom.V(1, 1), Mass: 1},
		{Pos: geom.V(2, 2), Mass: 1},
		{Pos: geom.V(-2, -2), Mass: 1},
		{Pos: geom.V(3, 3), Mass: 1},
		{Pos: geom.V(-5, 3), Mass: 1},
	}
	if err := tree.Build(items, 2); err != nil {
		t.Fatalf("Build: %v", err)
	}

	targets := []geom.Vec2{
		geom.V(0, 0),
		geom.V(-2.5, -2.5),
		geom.V(3.5, 3.5),
		geom.V(20.5, 20.5),
		geom.V(1, 1),
	}

	for _, target := range targets {
		acc := tree.Accumulate(target, testForce)
		exact := pairwise(tree.Items(), target)
		if diff := acc.Sub(exact).Len(); diff >= 0.05 {
			t.Errorf("target %v: |approx-exact| = %v, want < 0.05", target, diff)
		}
	}
}

func TestThetaZeroIsExact(t *testing.T) {
	items := randomPoints(200, 7)
	tree := New(0)
	if err := tree.Build(items, 4); err != nil {
		t.Fatalf("Build: %v", err)
	}

	rng := rand.New(rand.NewPCG(11, 11^0xdeadbeef))
	for i := 0; i < 20; i++ {
		target := geom.V(rng.Float64()*200-100, rng.Float64()*200-100)
		acc := tree.Accumulate(target, testForce)
		exact := pairwise(tree.Items(), target)
		// Theta 0 never opens the approximation branch, so the only
		// difference from brute force is summation order.
		if diff := acc.Sub(exact).Len(); diff > 1e-6 {
			t.Errorf("target %v: |approx-exact| = %v, want ~0", target, diff)
		}
	}
}

func TestErrorShrinksWithTheta(t *testing.T) {
	items := randomPoints(500, 3)

	maxErr := func(theta float64) float64 {
		pts := make([]WeightedPoint, len(items))
		copy(pts, items)
		tree := New(theta)
		if err := tree.Build(pts, 8); err != nil {
			t.Fatalf("Build: %v", err)
		}
		worst := 0.0
		rng := rand.New(rand.NewPCG(5, 5^0xdeadbeef))
		for i := 0; i < 30; i++ {
			target := geom.V(rng.Float64()*200-100, rng.Float64()*200-100)
			diff := tree.Accumulate(target, testForce).Sub(pairwise(tree.Items(), target)).Len()
			worst = math.Max(worst, diff)
		}
		return worst
	}

	loose := maxErr(1.2)
	tight := maxErr(0.3)
	if tight > loose {
		t.Errorf("error at theta 0.3 (%v) exceeds error at theta 1.2 (%v)", tight, loose)
	}
}

func TestBuildRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		pt   WeightedPoint
	}{
		{"NaNPosition", WeightedPoint{Pos: geom.V(math.NaN(), 0), Mass: 1}},
		{"InfPosition", WeightedPoint{Pos: geom.V(0, math.Inf(1)), Mass: 1}},
		{"NaNMass", WeightedPoint{Pos: geom.V(0, 0), Mass: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New(0.5)
			err := tree.Build([]WeightedPoint{{Pos: geom.V(1, 1), Mass: 1}, tt.pt}, 2)
			if err == nil {
				t.Fatal("Build accepted non-finite input")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want invalid input", errors.GetCode(err))
			}
		})
	}
}

func TestEmptyAndSinglePoint(t *testing.T) {
	tree := New(0.5)
	if err := tree.Build(nil, 2); err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if acc := tree.Accumulate(geom.V(1, 2), testForce); !acc.IsZero() {
		t.Errorf("empty tree accumulate = %v, want zero", acc)
	}

	if err := tree.Build([]WeightedPoint{{Pos: geom.V(3, 4), Mass: 2}}, 2); err != nil {
		t.Fatalf("Build(single): %v", err)
	}
	acc := tree.Accumulate(geom.V(0, 0), testForce)
	exact := testForce(geom.V(0, 0), WeightedPoint{Pos: geom.V(3, 4), Mass: 2})
	if acc != exact {
		t.Errorf("single point accumulate = %v, want %v", acc, exact)
	}
}

func TestBuildCoincidentPointsOverLeafCap(t *testing.T) {
	// More identical points than the leaf cap must not subdivide forever.
	stack := make([]WeightedPoint, 10)
	for i := range stack {
		stack[i] = WeightedPoint{Pos: geom.V(5, 5), Mass: 1}
	}
	tree := New(0.5)
	if err := tree.Build(stack, 4); err != nil {
		t.Fatalf("Build: %v", err)
	}

	target := geom.V(0, 0)
	acc := tree.Accumulate(target, testForce)
	exact := pairwise(tree.Items(), target)
	if diff := acc.Sub(exact).Len(); diff >= 0.05 {
		t.Errorf("|approx-exact| = %v, want < 0.05", diff)
	}

	// A coincident cluster among spread points stays routable too.
	mixed := append(randomPoints(20, 13), stack...)
	if err := tree.Build(mixed, 4); err != nil {
		t.Fatalf("Build(mixed): %v", err)
	}
	if got := len(tree.Items()); got != 30 {
		t.Errorf("items = %d, want 30", got)
	}
}

func TestBuildReusesArena(t *testing.T) {
	tree := New(0.5)
	if err := tree.Build(randomPoints(100, 1), 4); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if err := tree.Build(randomPoints(50, 2), 4); err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if got := len(tree.Items()); got != 50 {
		t.Errorf("items after rebuild = %d, want 50", got)
	}
	// The rebuilt tree must answer for the new points only.
	target := geom.V(250, 250) // outside the cloud
	acc := tree.Accumulate(target, testForce)
	exact := pairwise(tree.Items(), target)
	if diff := acc.Sub(exact).Len(); diff >= 0.05 {
		t.Errorf("|approx-exact| after rebuild = %v, want < 0.05", diff)
	}
}
