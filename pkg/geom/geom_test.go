package geom

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(-1, 2)

	if got := a.Add(b); got != V(2, 6) {
		t.Errorf("Add = %v, want {2 6}", got)
	}
	if got := a.Sub(b); got != V(4, 2) {
		t.Errorf("Sub = %v, want {4 2}", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale = %v, want {6 8}", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := a.LenSq(); got != 25 {
		t.Errorf("LenSq = %v, want 25", got)
	}
}

func TestVec2IsFinite(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want bool
	}{
		{"zero", V(0, 0), true},
		{"plain", V(1.5, -2.5), true},
		{"nan x", V(math.NaN(), 0), false},
		{"inf y", V(0, math.Inf(1)), false},
		{"neg inf x", V(math.Inf(-1), 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestRectFromCenterSize(t *testing.T) {
	r := RectFromCenterSize(V(10, 20), 4, 6)

	if r.Min != V(8, 17) || r.Max != V(12, 23) {
		t.Fatalf("rect = %+v, want Min {8 17} Max {12 23}", r)
	}
	if got := r.Width(); got != 4 {
		t.Errorf("Width = %v, want 4", got)
	}
	if got := r.Height(); got != 6 {
		t.Errorf("Height = %v, want 6", got)
	}
	if got := r.Center(); got != V(10, 20) {
		t.Errorf("Center = %v, want {10 20}", got)
	}
	if got := r.MaxDim(); got != 6 {
		t.Errorf("MaxDim = %v, want 6", got)
	}
}

func TestEmptyRectUnionIdentity(t *testing.T) {
	r := RectFromMinMax(V(1, 2), V(3, 4))

	if got := EmptyRect().Union(r); got != r {
		t.Errorf("EmptyRect().Union(r) = %+v, want %+v", got, r)
	}
	if got := r.Union(EmptyRect()); got != r {
		t.Errorf("r.Union(EmptyRect()) = %+v, want %+v", got, r)
	}
}

func TestRectIntersects(t *testing.T) {
	base := RectFromMinMax(V(0, 0), V(10, 10))

	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"overlapping", RectFromMinMax(V(5, 5), V(15, 15)), true},
		{"contained", RectFromMinMax(V(2, 2), V(3, 3)), true},
		{"edge contact", RectFromMinMax(V(10, 0), V(20, 10)), true},
		{"corner contact", RectFromMinMax(V(10, 10), V(20, 20)), true},
		{"disjoint right", RectFromMinMax(V(11, 0), V(20, 10)), false},
		{"disjoint above", RectFromMinMax(V(0, 11), V(10, 20)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.o); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
			if got := tt.o.Intersects(base); got != tt.want {
				t.Errorf("Intersects (flipped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := RectFromMinMax(V(0, 0), V(10, 10))
	b := RectFromMinMax(V(5, -5), V(15, 5))

	got := a.Intersect(b)
	want := RectFromMinMax(V(5, 0), V(10, 5))
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
}

func TestRectContains(t *testing.T) {
	r := RectFromMinMax(V(0, 0), V(10, 10))

	for _, p := range []Vec2{V(5, 5), V(0, 0), V(10, 10), V(0, 10)} {
		if !r.Contains(p) {
			t.Errorf("Contains(%v) = false, want true", p)
		}
	}
	for _, p := range []Vec2{V(-1, 5), V(5, 11), V(10.001, 5)} {
		if r.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func TestRectExpandTranslate(t *testing.T) {
	r := RectFromMinMax(V(0, 0), V(10, 10))

	if got := r.Expand(2); got != RectFromMinMax(V(-2, -2), V(12, 12)) {
		t.Errorf("Expand = %+v", got)
	}
	if got := r.Translate(V(3, -1)); got != RectFromMinMax(V(3, -1), V(13, 9)) {
		t.Errorf("Translate = %+v", got)
	}
}

func TestRectExtendWith(t *testing.T) {
	r := EmptyRect().ExtendWith(V(1, 1)).ExtendWith(V(-2, 5))

	if r != RectFromMinMax(V(-2, 1), V(1, 5)) {
		t.Errorf("ExtendWith chain = %+v, want Min {-2 1} Max {1 5}", r)
	}
}

func TestRectQuarter(t *testing.T) {
	r := RectFromMinMax(V(0, 0), V(10, 20))
	q := r.Quarter()

	want := [4]Rect{
		RectFromMinMax(V(0, 0), V(5, 10)),
		RectFromMinMax(V(5, 0), V(10, 10)),
		RectFromMinMax(V(0, 10), V(5, 20)),
		RectFromMinMax(V(5, 10), V(10, 20)),
	}
	for i := range q {
		if q[i] != want[i] {
			t.Errorf("quadrant %d = %+v, want %+v", i, q[i], want[i])
		}
	}

	union := EmptyRect()
	for _, sub := range q {
		union = union.Union(sub)
	}
	if union != r {
		t.Errorf("quadrants union = %+v, want %+v", union, r)
	}
}
