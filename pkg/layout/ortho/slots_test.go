package ortho

import (
	"context"
	"testing"

	"github.com/gridwise/layoutkit/pkg/geom"
)

func TestPortSidesFrom(t *testing.T) {
	tests := []struct {
		sideA, sideB Side
		connA, connB int
		want         portSides
	}{
		{SideLeft, SideLeft, 0, 1, bothLeftOrTop},
		{SideRight, SideRight, 0, 1, bothRightOrBottom},
		{SideLeft, SideRight, 1, 0, changeUp},
		{SideRight, SideLeft, 1, 0, changeDown},
		{SideLeft, SideRight, 0, 1, changeDown},
		{SideRight, SideLeft, 0, 1, changeUp},
	}
	for _, tt := range tests {
		got := portSidesFrom(tt.sideA, tt.sideB, tt.connA, tt.connB)
		if got != tt.want {
			t.Errorf("portSidesFrom(%v, %v, %d, %d) = %v, want %v",
				tt.sideA, tt.sideB, tt.connA, tt.connB, got, tt.want)
		}
	}
}

func TestLegOrderState(t *testing.T) {
	state := newLegOrderState(geom.V(0, 0), geom.V(20, 0))
	if !state.advance(DownRight) {
		t.Error("first leg of a left-to-right route should be global")
	}
	if !state.advance(DownLeft) {
		t.Error("advance should report the leg before the bend as global")
	}
	if state.currentIsGlobal {
		t.Error("DownLeft bend on a global leg should flip the order")
	}

	state = newLegOrderState(geom.V(20, 0), geom.V(0, 0))
	if state.advance(DownLeft) {
		t.Error("first leg of a right-to-left route should not be global")
	}
	if !state.advance(DownRight) {
		t.Error("DownLeft bend on a non-global leg should flip it to global")
	}
	if !state.currentIsGlobal {
		t.Error("DownRight bend on a global leg should keep it global")
	}
}

func mkLeg(start, end, circ int, sides portSides) channelLeg {
	return channelLeg{
		startConnector: start,
		endConnector:   end,
		circDistance:   circ,
		sides:          sides,
	}
}

func TestChannelLegCompare(t *testing.T) {
	leg1 := mkLeg(0, 2, 2, bothLeftOrTop)
	leg2 := mkLeg(1, 3, 3, bothLeftOrTop)
	if legCmp(&leg1, &leg2) >= 0 {
		t.Error("shorter same-wall leg should pack first")
	}
	if legRelativeOrder(&leg1, &leg2) >= 0 {
		t.Error("shorter left-or-top leg should stack below")
	}

	leg3 := mkLeg(1, 3, 1, bothRightOrBottom)
	leg4 := mkLeg(1, 3, 1, bothRightOrBottom)
	if legCmp(&leg3, &leg4) != 0 || legRelativeOrder(&leg3, &leg4) != 0 {
		t.Error("identical legs should compare equal")
	}

	leg5 := mkLeg(3, 1, 1, changeUp)
	leg6 := mkLeg(3, 2, 1, changeUp)
	leg7 := mkLeg(4, 2, 1, changeUp)
	if legCmp(&leg5, &leg6) >= 0 {
		t.Error("changeUp legs order by smaller lower connector first")
	}
	if legRelativeOrder(&leg5, &leg6) >= 0 {
		t.Error("changeUp relative order should match the packing order")
	}
	if legCmp(&leg6, &leg7) >= 0 {
		t.Error("changeUp legs with equal lower connector order by upper connector")
	}

	leg8 := mkLeg(2, 8, 1, changeUp)
	leg9 := mkLeg(2, 9, 1, changeUp)
	if legCmp(&leg9, &leg8) <= 0 {
		t.Error("wider changeUp leg should pack later")
	}

	leg10 := mkLeg(3, 1, 1, changeDown)
	leg11 := mkLeg(3, 2, 1, changeDown)
	if legCmp(&leg10, &leg11) <= 0 {
		t.Error("changeDown legs with equal upper connector order by lower connector, reversed")
	}

	leg12 := mkLeg(9, 14, 1, changeDown)
	leg13 := mkLeg(9, 15, 1, changeDown)
	leg14 := mkLeg(10, 15, 1, changeDown)
	if legCmp(&leg13, &leg12) >= 0 {
		t.Error("changeDown legs order by larger upper connector first")
	}
	if legCmp(&leg14, &leg13) >= 0 || legCmp(&leg14, &leg12) >= 0 {
		t.Error("changeDown tie on upper connector breaks by larger lower connector")
	}

	leg15 := mkLeg(1, 3, 2, bothRightOrBottom)
	leg16 := mkLeg(1, 4, 3, bothRightOrBottom)
	if legCmp(&leg15, &leg16) >= 0 {
		t.Error("shorter right-or-bottom leg should pack first")
	}
	if legRelativeOrder(&leg15, &leg16) <= 0 {
		t.Error("right-or-bottom legs stack in reverse of their packing order")
	}

	// Groups stack in portSides order regardless of span.
	if legRelativeOrder(&leg1, &leg5) >= 0 {
		t.Error("left-or-top legs should stack below channel-crossing legs")
	}
	if legRelativeOrder(&leg5, &leg15) >= 0 {
		t.Error("channel-crossing legs should stack below right-or-bottom legs")
	}
}

func TestConnectorsCircularIndices(t *testing.T) {
	boxes := channelFixture()
	rg := NewRoutingGraph(boxes)
	conns := NewConnectors(rg, boxes)

	for gid := 0; gid < len(rg.VChannels)+len(rg.HChannels); gid++ {
		cs := conns.channelRange(gid)
		seen := make(map[int]bool, len(cs))
		for i, c := range cs {
			if c.circular < 0 || c.circular >= len(cs) {
				t.Fatalf("channel %d connector %d circular index %d out of range", gid, i, c.circular)
			}
			if seen[c.circular] {
				t.Fatalf("channel %d has duplicate circular index %d", gid, c.circular)
			}
			seen[c.circular] = true
			if i > 0 && cs[i-1].pos > c.pos {
				t.Fatalf("channel %d connectors not sorted by position", gid)
			}
		}
	}
}

func TestAssignSlotsStraightRoutes(t *testing.T) {
	boxes := channelFixture()
	edges := fixtureEdges()
	rg := NewRoutingGraph(boxes)
	conns := NewConnectors(rg, boxes)

	routes, err := RouteEdges(rg, edges, boxes)
	if err != nil {
		t.Fatalf("RouteEdges: %v", err)
	}
	routing, err := AssignSlots(context.Background(), rg, conns, edges, routes, boxes)
	if err != nil {
		t.Fatalf("AssignSlots: %v", err)
	}

	if len(routing.EdgeRoutes) != len(edges) {
		t.Fatalf("edge routes = %d, want %d", len(routing.EdgeRoutes), len(edges))
	}
	for i, er := range routing.EdgeRoutes {
		if er.Edge != i {
			t.Errorf("edge route %d references edge %d", i, er.Edge)
		}
		route := routes[er.AbstractRoute]
		if len(er.PortSlots) != len(route.Route) || len(er.ChannelSlots) != len(route.Route) {
			t.Errorf("edge %d slot lists do not match route length", i)
		}
		for p, idx := range route.Route {
			n := rg.Nodes[idx]
			if n.Kind != RNodePort {
				continue
			}
			total := routing.PortSlots[n.Box*4+int(n.Side)]
			if er.PortSlots[p] < 0 || er.PortSlots[p] >= total {
				t.Errorf("edge %d port slot %d out of %d", i, er.PortSlots[p], total)
			}
		}
	}
	for gid, slots := range routing.ChannelSlots {
		if slots < 0 {
			t.Errorf("channel %d has negative slot count", gid)
		}
	}

	polylines := RouteSegments(rg, boxes, routes, routing)
	if len(polylines) != len(edges) {
		t.Fatalf("polylines = %d, want %d", len(polylines), len(edges))
	}
	for i, points := range polylines {
		if len(points) < 2 {
			t.Fatalf("polyline %d has %d points", i, len(points))
		}
		assertRectilinear(t, points)
	}

	// Edges sharing a port side must not share a port slot.
	type portKey struct {
		box  int
		side Side
		slot int
	}
	used := make(map[portKey]int)
	for i, er := range routing.EdgeRoutes {
		route := routes[er.AbstractRoute]
		for p, idx := range route.Route {
			n := rg.Nodes[idx]
			if n.Kind != RNodePort {
				continue
			}
			key := portKey{box: n.Box, side: n.Side, slot: er.PortSlots[p]}
			if prev, ok := used[key]; ok {
				t.Errorf("edges %d and %d share port slot %+v", prev, i, key)
			}
			used[key] = i
		}
	}
}
