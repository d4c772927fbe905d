package ortho

import (
	"sort"

	"github.com/gridwise/layoutkit/pkg/errors"
	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
)

// Side names one side of a node box. The numeric order is load-bearing:
// per-side slot counters index into a nodes*4 array by this value.
type Side int

const (
	SideRight Side = iota
	SideLeft
	SideTop
	SideBottom
)

// Opposite returns the facing side.
func (s Side) Opposite() Side {
	switch s {
	case SideRight:
		return SideLeft
	case SideLeft:
		return SideRight
	case SideTop:
		return SideBottom
	default:
		return SideTop
	}
}

// Orientation reports which channels a port on this side connects to:
// left and right ports reach vertical channels, top and bottom ports
// horizontal ones.
func (s Side) Orientation() Orientation {
	if s == SideRight || s == SideLeft {
		return Vertical
	}
	return Horizontal
}

// Orientation distinguishes vertical from horizontal channels.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Opposite returns the other orientation.
func (o Orientation) Opposite() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// BendDirection records which way a route turns at a channel crossing,
// looking from the incoming segment.
type BendDirection int

const (
	UpRight BendDirection = iota
	UpLeft
	DownRight
	DownLeft
)

// SideForOrientation returns the side of a channel connector the bend
// attaches to, for a channel of the given orientation.
func (b BendDirection) SideForOrientation(o Orientation) Side {
	if o == Vertical {
		if b == UpRight || b == DownRight {
			return SideRight
		}
		return SideLeft
	}
	if b == UpRight || b == UpLeft {
		return SideTop
	}
	return SideBottom
}

// RNodeKind tags a routing graph node.
type RNodeKind int

const (
	// RNodeBox is an original node box.
	RNodeBox RNodeKind = iota
	// RNodePort connects a box side to a channel.
	RNodePort
	// RNodeBend is a crossing of a vertical and a horizontal channel.
	RNodeBend
)

// RNode is one node of the routing graph.
type RNode struct {
	Kind RNodeKind
	// Box is the graph node index for RNodeBox and the owning box for
	// RNodePort.
	Box int
	// Channel is the channel the port sits in (RNodePort). The index is
	// relative to the channel's orientation.
	Channel int
	// Side is the box side the port is on, not the side of the channel.
	Side Side
	// VChannel and HChannel name the crossing channels of a bend.
	VChannel, HChannel int
	Neighbors          []int
}

// ChannelRef names a channel together with its orientation.
type ChannelRef struct {
	Index       int
	Orientation Orientation
}

// portChannel returns the channel of a port node.
func (n *RNode) portChannel() (ChannelRef, bool) {
	if n.Kind != RNodePort {
		return ChannelRef{}, false
	}
	return ChannelRef{Index: n.Channel, Orientation: n.Side.Orientation()}, true
}

// channelRef resolves the channel a route is traveling in at this node.
// For ports it is the port's channel; for bends it is the crossing channel
// matching the requested orientation.
func (n *RNode) channelRef(o Orientation) ChannelRef {
	switch n.Kind {
	case RNodePort:
		return ChannelRef{Index: n.Channel, Orientation: n.Side.Orientation()}
	case RNodeBend:
		if o == Vertical {
			return ChannelRef{Index: n.VChannel, Orientation: Vertical}
		}
		return ChannelRef{Index: n.HChannel, Orientation: Horizontal}
	default:
		panic("ortho: channelRef on a box node")
	}
}

// RoutingGraph connects node boxes, their ports, and channel crossings.
//
// Nodes are stored in a fixed order: first the boxes (same order as the
// input), then four ports per box, then one bend node per channel
// crossing. Several helpers rely on that order.
type RoutingGraph struct {
	Nodes     []RNode
	NodesLen  int
	VChannels []Channel
	HChannels []Channel
}

func (rg *RoutingGraph) addEdge(from, to int) {
	rg.Nodes[from].Neighbors = append(rg.Nodes[from].Neighbors, to)
	rg.Nodes[to].Neighbors = append(rg.Nodes[to].Neighbors, from)
}

// Channel returns the channel for an orientation-relative index.
func (rg *RoutingGraph) Channel(idx int, o Orientation) *Channel {
	if o == Vertical {
		return &rg.VChannels[idx]
	}
	return &rg.HChannels[idx]
}

// ChannelGID maps an orientation-relative channel index to the global
// index used by slot bookkeeping: vertical channels first, then
// horizontal ones.
func (rg *RoutingGraph) ChannelGID(idx int, o Orientation) int {
	if o == Vertical {
		return idx
	}
	return len(rg.VChannels) + idx
}

// ChannelByGID resolves a global channel index.
func (rg *RoutingGraph) ChannelByGID(gid int) *Channel {
	if gid >= len(rg.VChannels) {
		return &rg.HChannels[gid-len(rg.VChannels)]
	}
	return &rg.VChannels[gid]
}

// bendCrossings returns, for a channel, the indices of the channels of the
// opposite orientation it crosses. Bend nodes sit at the tail of the node
// array.
func (rg *RoutingGraph) bendCrossings(channelIdx int, o Orientation) []int {
	var out []int
	for i := rg.NodesLen * 5; i < len(rg.Nodes); i++ {
		n := &rg.Nodes[i]
		if n.Kind != RNodeBend {
			break
		}
		if o == Vertical && n.VChannel == channelIdx {
			out = append(out, n.HChannel)
		} else if o == Horizontal && n.HChannel == channelIdx {
			out = append(out, n.VChannel)
		}
	}
	return out
}

// NodePort is a box side used as an edge endpoint.
type NodePort struct {
	Node int
	Side Side
}

// Position returns the port anchor at the center of the box side.
func (p NodePort) Position(box geom.Rect) geom.Vec2 {
	switch p.Side {
	case SideRight:
		return geom.V(box.Max.X, box.Center().Y)
	case SideLeft:
		return geom.V(box.Min.X, box.Center().Y)
	case SideTop:
		return geom.V(box.Center().X, box.Min.Y)
	default:
		return geom.V(box.Center().X, box.Max.Y)
	}
}

// ChannelPosition returns the along-channel coordinate of the port.
func (p NodePort) ChannelPosition(box geom.Rect) float64 {
	if p.Side == SideRight || p.Side == SideLeft {
		return box.Center().Y
	}
	return box.Center().X
}

// SlotPosition spreads multiple edge endpoints evenly along the box side.
func (p NodePort) SlotPosition(box geom.Rect, slot, totalSlots int) geom.Vec2 {
	switch p.Side {
	case SideRight:
		spacing := box.Height() / (float64(totalSlots) + 1.0)
		return geom.V(box.Max.X, box.Min.Y+spacing*(float64(slot)+1.0))
	case SideLeft:
		spacing := box.Height() / (float64(totalSlots) + 1.0)
		return geom.V(box.Min.X, box.Min.Y+spacing*(float64(slot)+1.0))
	case SideTop:
		spacing := box.Width() / (float64(totalSlots) + 1.0)
		return geom.V(box.Min.X+spacing*(float64(slot)+1.0), box.Min.Y)
	default:
		spacing := box.Width() / (float64(totalSlots) + 1.0)
		return geom.V(box.Min.X+spacing*(float64(slot)+1.0), box.Max.Y)
	}
}

// NewRoutingGraph builds channels for the boxes and connects boxes, ports,
// and bend nodes into a routing graph.
func NewRoutingGraph(boxes []geom.Rect) *RoutingGraph {
	vchannels, hchannels := BuildChannels(boxes)

	type redge struct{ from, to int }
	var rnodes []RNode
	var redges []redge

	for i := range boxes {
		rnodes = append(rnodes, RNode{Kind: RNodeBox, Box: i})
	}
	for channelIdx := range vchannels {
		for p := range vchannels[channelIdx].Ports {
			port := &vchannels[channelIdx].Ports[p]
			if port.Kind != PortNode {
				continue
			}
			rnodes = append(rnodes, RNode{Kind: RNodePort, Box: port.Node, Channel: channelIdx, Side: port.Side})
			redges = append(redges, redge{from: port.Node, to: len(rnodes) - 1})
			port.RNode = len(rnodes) - 1
		}
	}
	for channelIdx := range hchannels {
		for p := range hchannels[channelIdx].Ports {
			port := &hchannels[channelIdx].Ports[p]
			if port.Kind != PortNode {
				continue
			}
			rnodes = append(rnodes, RNode{Kind: RNodePort, Box: port.Node, Channel: channelIdx, Side: port.Side})
			redges = append(redges, redge{from: port.Node, to: len(rnodes) - 1})
			port.RNode = len(rnodes) - 1
		}
	}
	for vi := range vchannels {
		for hi := range hchannels {
			if !vchannels[vi].Rect.Intersects(hchannels[hi].Rect) {
				continue
			}
			cross := vchannels[vi].Rect.Intersect(hchannels[hi].Rect).Center()
			bendIdx := len(rnodes)
			vchannels[vi].Ports = append(vchannels[vi].Ports, ChannelPort{
				Position: cross.Y,
				Kind:     PortBend,
				Crossing: hi,
				RNode:    bendIdx,
			})
			hchannels[hi].Ports = append(hchannels[hi].Ports, ChannelPort{
				Position: cross.X,
				Kind:     PortBend,
				Crossing: vi,
				RNode:    bendIdx,
			})
			rnodes = append(rnodes, RNode{Kind: RNodeBend, VChannel: vi, HChannel: hi})
		}
	}

	// Connect neighboring ports along each channel so straight runs are
	// explored before turns.
	chain := func(channels []Channel) {
		for c := range channels {
			ports := channels[c].Ports
			sort.Slice(ports, func(i, j int) bool { return ports[i].Position < ports[j].Position })
			for i := 1; i < len(ports); i++ {
				redges = append(redges, redge{from: ports[i-1].RNode, to: ports[i].RNode})
			}
		}
	}
	chain(vchannels)
	chain(hchannels)

	rg := &RoutingGraph{
		Nodes:     rnodes,
		NodesLen:  len(boxes),
		VChannels: vchannels,
		HChannels: hchannels,
	}
	for _, e := range redges {
		rg.addEdge(e.from, e.to)
	}
	return rg
}

// AbstractRoute is a route between two boxes as routing graph nodes, with
// no port or channel slot assigned yet. It always starts and ends with a
// port node; every interior node is a bend.
type AbstractRoute struct {
	From, To int
	Route    []int
	// Bends holds one direction per interior bend node, used to pick the
	// channel connector sides later.
	Bends []BendDirection
}

// RouteEdges finds an abstract route for every distinct undirected edge.
// Self edges are skipped; parallel edges share one route. The result is
// sorted by (From, To) with From < To.
func RouteEdges(rg *RoutingGraph, edges []graph.Edge, boxes []geom.Rect) ([]AbstractRoute, error) {
	type pair struct{ from, to int }
	pairs := make([]pair, 0, len(edges))
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		p := pair{from: e.From, to: e.To}
		if p.from > p.to {
			p.from, p.to = p.to, p.from
		}
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].from != pairs[j].from {
			return pairs[i].from < pairs[j].from
		}
		return pairs[i].to < pairs[j].to
	})
	pairs = dedupPairs(pairs)

	var routes []AbstractRoute
	var targets []int
	lastFrom := -1
	for _, p := range pairs {
		if p.from != lastFrom {
			if len(targets) > 0 {
				if err := routeEdgesFrom(rg, lastFrom, targets, &routes, boxes); err != nil {
					return nil, err
				}
			}
			lastFrom = p.from
			targets = targets[:0]
		}
		targets = append(targets, p.to)
	}
	if len(targets) > 0 {
		if err := routeEdgesFrom(rg, lastFrom, targets, &routes, boxes); err != nil {
			return nil, err
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].From != routes[j].From {
			return routes[i].From < routes[j].From
		}
		return routes[i].To < routes[j].To
	})
	return routes, nil
}

func dedupPairs[T comparable](pairs []T) []T {
	out := pairs[:0]
	for i, p := range pairs {
		if i == 0 || p != pairs[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// routeEdgesFrom runs one breadth-first search from a box to all its
// targets, preferring straight channel continuations over turns.
func routeEdgesFrom(rg *RoutingGraph, from int, targets []int, out *[]AbstractRoute, boxes []geom.Rect) error {
	type queued struct {
		node        int
		orientation Orientation
	}
	visited := make([]bool, len(rg.Nodes))
	predecessor := make([]int, len(rg.Nodes))
	for i := range predecessor {
		predecessor[i] = -1
	}
	var queue []queued

	visited[from] = true
	for _, n := range rg.Nodes[from].Neighbors {
		neighbor := &rg.Nodes[n]
		if neighbor.Kind != RNodePort {
			return errors.New(errors.ErrCodeInternal, "box %d connected to a non-port routing node", from)
		}
		predecessor[n] = from
		queue = append(queue, queued{node: n, orientation: neighbor.Side.Orientation()})
	}

	toFind := len(targets)
	isTarget := make(map[int]bool, len(targets))
	for _, t := range targets {
		isTarget[t] = true
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		visited[cur.node] = true
		node := &rg.Nodes[cur.node]

		if node.Kind == RNodeBox && node.Box != from {
			if !isTarget[node.Box] {
				continue
			}
			var route []int
			current := cur.node
			for predecessor[current] >= 0 {
				current = predecessor[current]
				if current == from {
					break
				}
				route = append(route, current)
			}
			reverseInts(route)
			route = collapseStraightRuns(route, rg)
			*out = append(*out, AbstractRoute{
				From:  from,
				To:    node.Box,
				Route: route,
				Bends: computeBendDirections(route, rg, boxes),
			})
			toFind--
			if toFind == 0 {
				break
			}
			continue
		}

		wasSkip := false
		currentRef := node.channelRef(cur.orientation)
		for _, target := range node.Neighbors {
			if visited[target] {
				continue
			}
			targetNode := &rg.Nodes[target]
			visitFirst := true
			if targetNode.Kind == RNodeBend || targetNode.Kind == RNodePort {
				visitFirst = targetNode.channelRef(cur.orientation).Index == currentRef.Index
			}
			if visitFirst {
				visited[target] = true
				predecessor[target] = cur.node
				queue = append(queue, queued{node: target, orientation: cur.orientation})
			} else {
				wasSkip = true
			}
		}
		if wasSkip {
			turned := cur.orientation.Opposite()
			for _, target := range node.Neighbors {
				if !visited[target] {
					visited[target] = true
					predecessor[target] = cur.node
					queue = append(queue, queued{node: target, orientation: turned})
				}
			}
		}
	}
	if toFind != 0 {
		return errors.New(errors.ErrCodeInternal, "no channel route from box %d to %d of its targets", from, toFind)
	}
	return nil
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// collapseStraightRuns drops interior ports and bends that stay in the
// same channel, leaving exactly one route node per channel change.
func collapseStraightRuns(route []int, rg *RoutingGraph) []int {
	if len(route) < 2 {
		return route
	}
	ref, ok := rg.Nodes[route[0]].portChannel()
	if !ok {
		panic("ortho: route does not start with a port")
	}
	idx := 1
	for idx < len(route)-1 {
		current := &rg.Nodes[route[idx]]
		if current.Kind == RNodePort {
			route = append(route[:idx], route[idx+1:]...)
			continue
		}
		currentRef := current.channelRef(ref.Orientation)
		nextRef := rg.Nodes[route[idx+1]].channelRef(ref.Orientation)
		if currentRef == nextRef {
			route = append(route[:idx], route[idx+1:]...)
			continue
		}
		// A real bend: switch to the crossing channel.
		ref = current.channelRef(ref.Orientation.Opposite())
		idx++
	}
	return route
}

// computeBendDirections derives the turn direction at each bend from the
// points before and after it.
func computeBendDirections(route []int, rg *RoutingGraph, boxes []geom.Rect) []BendDirection {
	if len(route) <= 2 {
		return nil
	}
	var bends []BendDirection

	first := &rg.Nodes[route[0]]
	if first.Kind != RNodePort {
		panic("ortho: route does not start with a port")
	}
	port := NodePort{Node: first.Box, Side: first.Side}
	lastOrientation := first.Side.Orientation()
	channel := rg.Channel(first.Channel, lastOrientation)
	lastPos := channel.PointOnRepresentative(port.Position(boxes[first.Box]))

	nextPoint := func(pos int) geom.Vec2 {
		n := &rg.Nodes[route[pos]]
		switch n.Kind {
		case RNodePort:
			p := NodePort{Node: n.Box, Side: n.Side}
			c := rg.Channel(n.Channel, n.Side.Orientation())
			return c.PointOnRepresentative(p.Position(boxes[n.Box]))
		case RNodeBend:
			return rg.VChannels[n.VChannel].Rect.Intersect(rg.HChannels[n.HChannel].Rect).Center()
		default:
			panic("ortho: route interior is not a port or bend")
		}
	}

	for pos := 1; pos < len(route); pos++ {
		n := &rg.Nodes[route[pos]]
		if n.Kind != RNodeBend {
			break
		}
		next := nextPoint(pos + 1)
		bends = append(bends, bendDirection(lastPos, next, lastOrientation))
		lastOrientation = lastOrientation.Opposite()
		lastPos = rg.VChannels[n.VChannel].Rect.Intersect(rg.HChannels[n.HChannel].Rect).Center()
	}
	return bends
}

// bendDirection classifies the turn of the first segment, whose
// orientation is given, toward the following point.
func bendDirection(from, to geom.Vec2, o Orientation) BendDirection {
	rel := to.Sub(from)
	if o == Horizontal {
		switch {
		case rel.X >= 0 && rel.Y <= 0:
			return UpLeft
		case rel.X < 0 && rel.Y <= 0:
			return UpRight
		case rel.X >= 0 && rel.Y > 0:
			return DownLeft
		default:
			return DownRight
		}
	}
	switch {
	case rel.X >= 0 && rel.Y <= 0:
		return DownRight
	case rel.X < 0 && rel.Y <= 0:
		return DownLeft
	case rel.X >= 0 && rel.Y > 0:
		return UpRight
	default:
		return UpLeft
	}
}

// abstractSegments maps abstract routes to raw polylines on the channel
// center lines, with no slot spreading. Used by tests to sanity check
// routes before slot assignment.
func abstractSegments(rg *RoutingGraph, boxes []geom.Rect, routes []AbstractRoute) [][]geom.Vec2 {
	out := make([][]geom.Vec2, len(routes))
	for r, route := range routes {
		var points []geom.Vec2
		firstPort := true
		for _, idx := range route.Route {
			n := &rg.Nodes[idx]
			switch n.Kind {
			case RNodePort:
				port := NodePort{Node: n.Box, Side: n.Side}
				portPos := port.Position(boxes[n.Box])
				channelPoint := rg.Channel(n.Channel, n.Side.Orientation()).PointOnRepresentative(portPos)
				if firstPort {
					points = append(points, portPos, channelPoint)
					firstPort = false
				} else {
					points = append(points, channelPoint, portPos)
				}
			case RNodeBend:
				cross := rg.VChannels[n.VChannel].Rect.Intersect(rg.HChannels[n.HChannel].Rect)
				points = append(points, cross.Center())
			}
		}
		out[r] = points
	}
	return out
}
