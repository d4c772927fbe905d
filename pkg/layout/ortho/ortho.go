// Package ortho routes edges as rectilinear polylines through the free
// channels between node boxes.
//
// # Pipeline
//
//   - Sweep the box edges into vertical and horizontal channels
//     ([BuildChannels]) and connect boxes, ports, and channel crossings
//     into a routing graph ([NewRoutingGraph]).
//   - Find one abstract route per distinct node pair by breadth-first
//     search that prefers straight channel runs ([RouteEdges]).
//   - Assign every edge, parallel edges included, to port and channel
//     slots so lines do not overlap ([AssignSlots]). A topological order
//     over all routes keeps edges that share several channels from
//     crossing back and forth.
//   - Widen channels that got more slots than they can hold and push
//     boxes out of the way ([ResizeChannels]).
//
// [Route] runs the whole pipeline on a graph snapshot's positions.
package ortho

import (
	"context"
	"time"

	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/observability"
)

// Channel width granted per assigned slot, plus a base width.
const (
	baseChannelWidth = 20.0
	slotSpacing      = 8.0
)

// Result is a full edge routing: final box centers (resizing may move
// them) and one polyline per routed edge.
type Result struct {
	// Positions are the box centers after channel resizing, one per input
	// node.
	Positions []geom.Vec2
	// Edges holds the indices of the input edges that were routed; hidden
	// and self edges are left out.
	Edges []int
	// Polylines are the orthogonal routes, aligned with Edges.
	Polylines [][]geom.Vec2
	// ChannelCount is the total number of channels used.
	ChannelCount int
}

// Route computes rectilinear routes for all visible edges. Boxes are built
// from the node positions and sizes; edges with a hidden tag or equal
// endpoints are skipped. Channels too narrow for their slots are widened,
// which can shift node positions; the returned positions reflect that.
func Route(ctx context.Context, positions []geom.Vec2, sizes []graph.Size, edges []graph.Edge, hidden graph.TagSet) (*Result, error) {
	start := time.Now()

	out := &Result{Positions: make([]geom.Vec2, len(positions))}
	copy(out.Positions, positions)
	if len(positions) == 0 {
		return out, nil
	}

	boxes := make([]geom.Rect, len(positions))
	for i, p := range positions {
		var w, h float64
		if i < len(sizes) {
			w, h = sizes[i].W, sizes[i].H
		}
		boxes[i] = geom.RectFromCenterSize(p, w, h)
	}

	var kept []graph.Edge
	for i, e := range edges {
		if e.IsSelf() || hidden.Contains(e.Tag) {
			continue
		}
		kept = append(kept, e)
		out.Edges = append(out.Edges, i)
	}

	rg := NewRoutingGraph(boxes)
	out.ChannelCount = len(rg.VChannels) + len(rg.HChannels)
	if len(kept) == 0 {
		return out, nil
	}

	conns := NewConnectors(rg, boxes)
	routes, err := RouteEdges(rg, kept, boxes)
	if err != nil {
		return nil, err
	}
	routing, err := AssignSlots(ctx, rg, conns, kept, routes, boxes)
	if err != nil {
		return nil, err
	}

	minVertical := make([]float64, len(rg.VChannels))
	for i := range minVertical {
		minVertical[i] = baseChannelWidth + float64(routing.ChannelSlots[i])*slotSpacing
	}
	minHorizontal := make([]float64, len(rg.HChannels))
	for i := range minHorizontal {
		minHorizontal[i] = baseChannelWidth + float64(routing.ChannelSlots[len(rg.VChannels)+i])*slotSpacing
	}
	ResizeChannels(rg, boxes, minVertical, minHorizontal)

	for i, box := range boxes {
		out.Positions[i] = box.Center()
	}
	out.Polylines = RouteSegments(rg, boxes, routes, routing)

	observability.Algo().OnRoutesComplete(ctx, len(kept), out.ChannelCount, time.Since(start))
	return out, nil
}
