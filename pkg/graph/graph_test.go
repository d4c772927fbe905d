package graph

import (
	"reflect"
	"testing"

	"github.com/gridwise/layoutkit/pkg/errors"
)

func TestSnapshotRoundTrip(t *testing.T) {
	snap := &Snapshot{
		NodeCount: 3,
		Edges: []Edge{
			{From: 0, To: 1},
			{From: 1, To: 2, Tag: 4, Curvature: 0.5},
		},
		Sizes:  []Size{{W: 10, H: 5}, {W: 20, H: 5}, {W: 10, H: 10}},
		Hidden: NewTagSet(4),
	}

	data, err := MarshalSnapshot(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(snap, got) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", snap, got)
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		wantErr bool
	}{
		{
			name: "Valid",
			snap: Snapshot{NodeCount: 2, Edges: []Edge{{From: 0, To: 1}}},
		},
		{
			name: "Empty",
			snap: Snapshot{},
		},
		{
			name:    "EdgeTargetOutOfRange",
			snap:    Snapshot{NodeCount: 2, Edges: []Edge{{From: 0, To: 2}}},
			wantErr: true,
		},
		{
			name:    "NegativeSource",
			snap:    Snapshot{NodeCount: 2, Edges: []Edge{{From: -1, To: 0}}},
			wantErr: true,
		},
		{
			name:    "SizeCountMismatch",
			snap:    Snapshot{NodeCount: 3, Sizes: []Size{{W: 1, H: 1}}},
			wantErr: true,
		},
		{
			name:    "NegativeNodeCount",
			snap:    Snapshot{NodeCount: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() code = %v, want invalid input", err)
			}
		})
	}
}

func TestTagSet(t *testing.T) {
	s := NewTagSet(5, 1, 3, 1)
	if want := (TagSet{1, 3, 5}); !reflect.DeepEqual(s, want) {
		t.Fatalf("NewTagSet = %v, want %v", s, want)
	}

	for _, tag := range []int{1, 3, 5} {
		if !s.Contains(tag) {
			t.Errorf("Contains(%d) = false, want true", tag)
		}
	}
	if s.Contains(2) {
		t.Error("Contains(2) = true, want false")
	}

	s = s.Add(2)
	if want := (TagSet{1, 2, 3, 5}); !reflect.DeepEqual(s, want) {
		t.Errorf("Add(2) = %v, want %v", s, want)
	}
	s = s.Add(2) // already present
	if want := (TagSet{1, 2, 3, 5}); !reflect.DeepEqual(s, want) {
		t.Errorf("Add(2) twice = %v, want %v", s, want)
	}

	s = s.Remove(3)
	if want := (TagSet{1, 2, 5}); !reflect.DeepEqual(s, want) {
		t.Errorf("Remove(3) = %v, want %v", s, want)
	}
	s = s.Remove(99) // absent
	if want := (TagSet{1, 2, 5}); !reflect.DeepEqual(s, want) {
		t.Errorf("Remove(99) = %v, want %v", s, want)
	}
}

func TestVisibleEdges(t *testing.T) {
	snap := Snapshot{
		NodeCount: 4,
		Edges: []Edge{
			{From: 0, To: 1, Tag: 1},
			{From: 1, To: 2, Tag: 2},
			{From: 2, To: 3, Tag: 1},
		},
	}

	// No hidden tags: the input slice comes back without copying.
	if got := snap.VisibleEdges(); &got[0] != &snap.Edges[0] {
		t.Error("VisibleEdges with no hidden tags should return the input slice")
	}

	snap.Hidden = NewTagSet(1)
	got := snap.VisibleEdges()
	want := []Edge{{From: 1, To: 2, Tag: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VisibleEdges = %v, want %v", got, want)
	}
}

func TestResultRoundTrip(t *testing.T) {
	res := &Result{
		Kind:      KindRoutes,
		Positions: []Position{{X: 1, Y: 2}, {X: 3, Y: 4}},
		Routes: []Polyline{
			{Edge: 0, Points: []Position{{X: 1, Y: 2}, {X: 1, Y: 4}, {X: 3, Y: 4}}},
		},
	}

	data, err := MarshalResult(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := UnmarshalResult(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(res, got) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", res, got)
	}
	if !got.IsRoutes() || got.IsForce() {
		t.Errorf("kind discrimination wrong for %q", got.Kind)
	}
}
