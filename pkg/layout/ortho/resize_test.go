package ortho

import (
	"testing"

	"github.com/gridwise/layoutkit/pkg/geom"
)

func TestResizeChannels(t *testing.T) {
	boxes := []geom.Rect{
		geom.RectFromMinMax(geom.V(10, 10), geom.V(40, 20)),
		geom.RectFromMinMax(geom.V(50, 12), geom.V(70, 20)),
		geom.RectFromMinMax(geom.V(10, 30), geom.V(40, 37)),
		geom.RectFromMinMax(geom.V(45, 30), geom.V(67, 40)),
		geom.RectFromMinMax(geom.V(30, 50), geom.V(65, 60)),
	}
	rg := NewRoutingGraph(boxes)
	if len(rg.VChannels) != 3 {
		t.Fatalf("vertical channels = %d, want 3", len(rg.VChannels))
	}
	if len(rg.HChannels) != 4 {
		t.Fatalf("horizontal channels = %d, want 4", len(rg.HChannels))
	}

	type size struct{ w, h float64 }
	before := make([]size, len(boxes))
	for i, b := range boxes {
		before[i] = size{w: b.Width(), h: b.Height()}
	}

	const minWidth = 20.0
	minV := make([]float64, len(rg.VChannels))
	minH := make([]float64, len(rg.HChannels))
	for i := range minV {
		minV[i] = minWidth
	}
	for i := range minH {
		minH[i] = minWidth
	}
	ResizeChannels(rg, boxes, minV, minH)

	const eps = 1e-9
	for i, c := range rg.VChannels {
		if c.Width() < minWidth-eps {
			t.Errorf("vchannel %d width = %v, want >= %v", i, c.Width(), minWidth)
		}
	}
	for i, c := range rg.HChannels {
		if c.Width() < minWidth-eps {
			t.Errorf("hchannel %d width = %v, want >= %v", i, c.Width(), minWidth)
		}
	}
	for i, b := range boxes {
		dw := b.Width() - before[i].w
		dh := b.Height() - before[i].h
		if dw < -eps || dw > eps || dh < -eps || dh > eps {
			t.Errorf("box %d changed size from %v to %vx%v", i, before[i], b.Width(), b.Height())
		}
	}

	// Boxes pushed apart by a widened channel must not overlap each other.
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			r := boxes[i].Intersect(boxes[j])
			if r.Width() > eps && r.Height() > eps {
				t.Errorf("boxes %d and %d overlap after resize", i, j)
			}
		}
	}
}

func TestResizeChannelsNoop(t *testing.T) {
	boxes := channelFixture()
	rg := NewRoutingGraph(boxes)

	beforeBoxes := make([]geom.Rect, len(boxes))
	copy(beforeBoxes, boxes)
	beforeV := make([]geom.Rect, len(rg.VChannels))
	for i, c := range rg.VChannels {
		beforeV[i] = c.Rect
	}

	// Minimum widths of zero require no changes at all.
	ResizeChannels(rg, boxes, make([]float64, len(rg.VChannels)), make([]float64, len(rg.HChannels)))

	for i := range boxes {
		if boxes[i] != beforeBoxes[i] {
			t.Errorf("box %d moved without any width pressure", i)
		}
	}
	for i := range rg.VChannels {
		if rg.VChannels[i].Rect != beforeV[i] {
			t.Errorf("vchannel %d moved without any width pressure", i)
		}
	}
}
