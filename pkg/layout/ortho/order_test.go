package ortho

import "testing"

func TestOrderResolverSort(t *testing.T) {
	r := NewOrderResolver(4)
	for _, rel := range [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}} {
		if !r.AddRouteOrd(rel[0], rel[1]) {
			t.Fatalf("relation %v rejected", rel)
		}
	}
	sorted := r.TopologicalSort()
	if len(sorted) != 4 {
		t.Fatalf("sorted %d routes, want 4", len(sorted))
	}
	if sorted[0] != 0 {
		t.Errorf("sorted[0] = %d, want 0", sorted[0])
	}
	if sorted[3] != 3 {
		t.Errorf("sorted[3] = %d, want 3", sorted[3])
	}
}

func TestOrderResolverRejectsCycle(t *testing.T) {
	r := NewOrderResolver(3)
	if !r.AddRouteOrd(0, 1) || !r.AddRouteOrd(1, 2) {
		t.Fatal("acyclic relations rejected")
	}
	if r.AddRouteOrd(2, 0) {
		t.Error("cycle-closing relation accepted")
	}
	if r.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", r.Rejected)
	}
	sorted := r.TopologicalSort()
	want := []int{0, 1, 2}
	for i := range want {
		if sorted[i] != want[i] {
			t.Errorf("sorted = %v, want %v", sorted, want)
			break
		}
	}
}

func TestOrderResolverSelfRelation(t *testing.T) {
	r := NewOrderResolver(2)
	if r.AddRouteOrd(1, 1) {
		t.Error("self relation accepted")
	}
}
