package ortho

import (
	"context"
	"sort"

	"github.com/gridwise/layoutkit/pkg/errors"
	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/observability"
)

// connectorSide is the channel wall a connector sits on: right or bottom
// vs. left or top. It is the opposite of the port's box side, because a
// box on the left of a vertical channel connects through its right side.
type connectorSide int

const (
	connRightOrBottom connectorSide = iota
	connLeftOrTop
)

func connectorSideOf(s Side) connectorSide {
	if s == SideRight || s == SideBottom {
		return connLeftOrTop
	}
	return connRightOrBottom
}

type connectorKind int

const (
	connPort connectorKind = iota
	connBend
)

// connector is a position and side aware crossing point of a channel:
// either a node port or a bend to a crossing channel.
type connector struct {
	slots    int
	kind     connectorKind
	ref      int // node id for ports, crossing channel id for bends
	side     connectorSide
	circular int
	pos      float64
}

// Connectors stores the connectors of all channels in one slice with
// per-channel offsets, indexed by global channel id.
type Connectors struct {
	connectors []connector
	offsets    []int
}

func (c *Connectors) channelRange(gid int) []connector {
	start := c.offsets[gid]
	end := len(c.connectors)
	if gid+1 < len(c.offsets) {
		end = c.offsets[gid+1]
	}
	return c.connectors[start:end]
}

// circularDistance is the gap between two connectors when walking around
// the channel boundary, used to keep short legs near the channel walls.
func circularDistance(from, to int, conns []connector) int {
	d := conns[from].circular - conns[to].circular
	if d < 0 {
		d = -d
	}
	if d > len(conns)/2 {
		return len(conns) - d
	}
	return d
}

// NewConnectors builds the connector list for every channel: one connector
// per node port and two (one per wall) per channel crossing, ordered along
// the channel. Circular indices walk up one wall and down the other.
func NewConnectors(rg *RoutingGraph, boxes []geom.Rect) *Connectors {
	all := &Connectors{
		offsets: make([]int, 0, len(rg.VChannels)+len(rg.HChannels)),
	}
	addChannel := func(channelIdx int, channel *Channel) {
		var conns []connector
		for _, port := range channel.Ports {
			if port.Kind != PortNode {
				continue
			}
			np := NodePort{Node: port.Node, Side: port.Side}
			conns = append(conns, connector{
				kind: connPort,
				ref:  port.Node,
				side: connectorSideOf(port.Side),
				pos:  np.ChannelPosition(boxes[port.Node]),
			})
		}
		rect := channel.Rect
		for _, crossIdx := range rg.bendCrossings(channelIdx, channel.Orientation) {
			crossRect := rg.Channel(crossIdx, channel.Orientation.Opposite()).Rect
			center := rect.Intersect(crossRect).Center()
			pos := center.Y
			if channel.Orientation == Horizontal {
				pos = center.X
			}
			conns = append(conns,
				connector{kind: connBend, ref: crossIdx, side: connRightOrBottom, pos: pos},
				connector{kind: connBend, ref: crossIdx, side: connLeftOrTop, pos: pos},
			)
		}
		sort.SliceStable(conns, func(i, j int) bool { return conns[i].pos < conns[j].pos })

		circular := 0
		for i := range conns {
			if conns[i].side == connRightOrBottom {
				conns[i].circular = circular
				circular++
			}
		}
		for i := len(conns) - 1; i >= 0; i-- {
			if conns[i].side == connLeftOrTop {
				conns[i].circular = circular
				circular++
			}
		}

		all.offsets = append(all.offsets, len(all.connectors))
		all.connectors = append(all.connectors, conns...)
	}
	for i := range rg.VChannels {
		addChannel(i, &rg.VChannels[i])
	}
	for i := range rg.HChannels {
		addChannel(i, &rg.HChannels[i])
	}
	return all
}

func connectorPortPosition(conns []connector, node int) int {
	for i := range conns {
		if conns[i].kind == connPort && conns[i].ref == node {
			return i
		}
	}
	panic("ortho: no connector for port")
}

func connectorBendPosition(conns []connector, crossing int, side Side) int {
	want := connectorSideOf(side)
	for i := range conns {
		if conns[i].kind == connBend && conns[i].ref == crossing && conns[i].side == want {
			return i
		}
	}
	panic("ortho: no connector for bend")
}

// portSides classifies a leg by the walls its two endpoints sit on. The
// numeric order is the stacking order of leg groups across the channel.
type portSides int

const (
	bothLeftOrTop portSides = iota
	// changeUp legs cross the channel heading up (or left) when walking in
	// the coordinate direction; changeDown legs head the other way. The two
	// groups cannot avoid crossing each other, so their relative order is
	// free.
	changeUp
	changeDown
	bothRightOrBottom
)

func (p portSides) stackOrder() int { return int(p) }

func (p portSides) packOrder() connectorSide {
	if p == bothRightOrBottom {
		return connRightOrBottom
	}
	return connLeftOrTop
}

func portSidesFrom(sideA, sideB Side, connA, connB int) portSides {
	if sideA.Orientation() != sideB.Orientation() {
		panic("ortho: leg endpoint sides have different orientations")
	}
	if sideA == sideB {
		if sideA == SideRight || sideA == SideBottom {
			return bothRightOrBottom
		}
		return bothLeftOrTop
	}
	switch {
	case (sideA == SideLeft && sideB == SideRight) || (sideA == SideTop && sideB == SideBottom):
		if connA < connB {
			return changeDown
		}
		return changeUp
	default: // (Right, Left) or (Bottom, Top)
		if connA > connB {
			return changeDown
		}
		return changeUp
	}
}

// channelLeg is one straight segment of an edge inside a channel, between
// two connectors.
type channelLeg struct {
	startConnector int
	endConnector   int
	edge           int
	// Indices into the abstract route where the leg's endpoints and its
	// channel slot live.
	routeStartIdx   int
	routeChannelIdx int
	routeEndIdx     int
	circDistance    int
	sides           portSides
	routeOrder      int
	// isGlobalOrder is true when the leg runs in the coordinate direction
	// (left to right, top to bottom) of its route.
	isGlobalOrder bool
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func orderedPair(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// legCmp is the packing order of legs inside one channel: groups by
// portSides, then by circular distance for same-wall legs or connector
// span for crossing legs, with the global route order as tiebreaker.
func legCmp(a, b *channelLeg) int {
	if c := cmpInt(int(a.sides), int(b.sides)); c != 0 {
		return c
	}
	var c int
	switch a.sides {
	case bothLeftOrTop, bothRightOrBottom:
		c = cmpInt(a.circDistance, b.circDistance)
	case changeUp:
		aMin, aMax := orderedPair(a.startConnector, a.endConnector)
		bMin, bMax := orderedPair(b.startConnector, b.endConnector)
		c = cmpInt(aMin, bMin)
		if c == 0 {
			c = cmpInt(aMax, bMax)
		}
	case changeDown:
		aMin, aMax := orderedPair(a.startConnector, a.endConnector)
		bMin, bMax := orderedPair(b.startConnector, b.endConnector)
		c = cmpInt(bMax, aMax)
		if c == 0 {
			c = cmpInt(bMin, aMin)
		}
	}
	if c != 0 {
		return c
	}
	if a.sides == bothRightOrBottom {
		return cmpInt(b.routeOrder, a.routeOrder)
	}
	return cmpInt(a.routeOrder, b.routeOrder)
}

// legRelativeOrder is the cross-channel stacking of two legs. It matches
// legCmp except for bothRightOrBottom legs, which consume slots from the
// far wall and therefore stack in reverse.
func legRelativeOrder(a, b *channelLeg) int {
	if a.sides == b.sides {
		c := legCmp(a, b)
		if a.sides == bothRightOrBottom {
			return -c
		}
		return c
	}
	return cmpInt(a.sides.stackOrder(), b.sides.stackOrder())
}

// legOrderState tracks whether the current leg of a route runs in the
// coordinate direction, flipping at each bend.
type legOrderState struct {
	currentIsGlobal bool
}

func newLegOrderState(start, end geom.Vec2) legOrderState {
	global := start.X < end.X
	if start.X == end.X {
		global = start.Y < end.Y
	}
	return legOrderState{currentIsGlobal: global}
}

// advance consumes one bend and returns whether the leg before the bend
// was in global order.
func (s *legOrderState) advance(bend BendDirection) bool {
	isGlobal := bend == UpLeft || bend == DownRight
	last := s.currentIsGlobal
	if !s.currentIsGlobal {
		isGlobal = !isGlobal
	}
	s.currentIsGlobal = isGlobal
	return last
}

// EdgeRoute binds one edge to its abstract route with concrete slot
// assignments per route node.
type EdgeRoute struct {
	AbstractRoute int
	Edge          int
	PortSlots     []int
	ChannelSlots  []int
}

// EdgeRouting is the result of slot assignment for all edges.
type EdgeRouting struct {
	EdgeRoutes []EdgeRoute
	// PortSlots counts edge endpoints per box side, indexed by box*4+side.
	PortSlots []int
	// ChannelSlots is the number of parallel slots per channel, indexed by
	// global channel id.
	ChannelSlots []int
}

// slotRange is an inclusive range of free slots consumed from either end.
type slotRange struct {
	start, end int
}

func (r *slotRange) consume(fromEnd bool) int {
	if fromEnd {
		slot := r.end
		if r.end > 0 {
			r.end--
		}
		return slot
	}
	slot := r.start
	r.start++
	return slot
}

// AssignSlots distributes the edges over port and channel slots so that
// parallel edges do not overlap and crossings are kept rare. Every edge,
// parallel duplicates included, gets its own EdgeRoute; the abstract
// routes are shared.
func AssignSlots(ctx context.Context, rg *RoutingGraph, conns *Connectors, edges []graph.Edge, routes []AbstractRoute, boxes []geom.Rect) (*EdgeRouting, error) {
	routeByPair := make(map[[2]int]int, len(routes))
	for i, r := range routes {
		routeByPair[[2]int{r.From, r.To}] = i
	}

	portSlots := make([]int, rg.NodesLen*4)
	channelsCount := len(rg.VChannels) + len(rg.HChannels)
	channelLegs := make([][]channelLeg, channelsCount)
	edgeRoutes := make([]EdgeRoute, 0, len(edges))

	for edgeID, edge := range edges {
		nodeMin, nodeMax := orderedPair(edge.From, edge.To)
		routeIdx, ok := routeByPair[[2]int{nodeMin, nodeMax}]
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "no route for edge %d-%d", edge.From, edge.To)
		}
		route := &routes[routeIdx]
		if len(route.Route) < 2 {
			return nil, errors.New(errors.ErrCodeInternal, "route %d-%d has fewer than 2 nodes", route.From, route.To)
		}

		pos := 0
		next := func() *RNode {
			n := &rg.Nodes[route.Route[pos]]
			pos++
			return n
		}
		// Crossing channel of the bend right before the node at pos-1.
		lastBendCrossing := func(o Orientation) int {
			n := &rg.Nodes[route.Route[pos-2]]
			if n.Kind != RNodeBend {
				panic("ortho: expected a bend before this route node")
			}
			if o == Vertical {
				return n.HChannel
			}
			return n.VChannel
		}

		bendIdx := 0
		state := newLegOrderState(boxes[edge.From].Center(), boxes[edge.To].Center())

		start := next()
		if start.Kind != RNodePort {
			return nil, errors.New(errors.ErrCodeInternal, "route %d-%d does not start with a port", route.From, route.To)
		}
		startBox, startChannel, sideStart := start.Box, start.Channel, start.Side
		portSlots[startBox*4+int(sideStart)]++
		lastOrientation := sideStart.Orientation()

		node := next()
		switch node.Kind {
		case RNodePort:
			// Straight route with a single leg.
			sideEnd := node.Side
			portSlots[node.Box*4+int(sideEnd)]++
			gid := rg.ChannelGID(node.Channel, sideEnd.Orientation())
			cs := conns.channelRange(gid)
			startConn := connectorPortPosition(cs, startBox)
			endConn := connectorPortPosition(cs, node.Box)
			cs[startConn].slots++
			cs[endConn].slots++
			channelLegs[gid] = append(channelLegs[gid], channelLeg{
				startConnector:  startConn,
				endConnector:    endConn,
				routeStartIdx:   0,
				routeChannelIdx: 0,
				routeEndIdx:     1,
				edge:            edgeID,
				circDistance:    circularDistance(startConn, endConn, cs),
				sides:           portSidesFrom(sideStart.Opposite(), sideEnd.Opposite(), startConn, endConn),
				isGlobalOrder:   true,
			})

		case RNodeBend:
			gid := rg.ChannelGID(startChannel, lastOrientation)
			cs := conns.channelRange(gid)
			startConn := connectorPortPosition(cs, startBox)
			crossing := node.HChannel
			if lastOrientation == Horizontal {
				crossing = node.VChannel
			}
			sideEnd := route.Bends[bendIdx].SideForOrientation(lastOrientation)
			endConn := connectorBendPosition(cs, crossing, sideEnd)
			cs[startConn].slots++
			cs[endConn].slots++
			channelLegs[gid] = append(channelLegs[gid], channelLeg{
				startConnector:  startConn,
				endConnector:    endConn,
				routeStartIdx:   0,
				routeChannelIdx: 0,
				routeEndIdx:     1,
				edge:            edgeID,
				circDistance:    circularDistance(startConn, endConn, cs),
				sides:           portSidesFrom(sideStart.Opposite(), sideEnd, startConn, endConn),
				isGlobalOrder:   state.advance(route.Bends[bendIdx]),
			})
			lastChannel := crossing
			lastBend := route.Bends[bendIdx]
			lastOrientation = lastOrientation.Opposite()
			bendIdx++

		walk:
			for {
				node := next()
				switch node.Kind {
				case RNodePort:
					sideEnd := node.Side
					portSlots[node.Box*4+int(sideEnd)]++
					gid := rg.ChannelGID(node.Channel, sideEnd.Orientation())
					cs := conns.channelRange(gid)
					legSideStart := lastBend.SideForOrientation(lastOrientation)
					startConn := connectorBendPosition(cs, lastBendCrossing(lastOrientation), legSideStart)
					endConn := connectorPortPosition(cs, node.Box)
					cs[startConn].slots++
					cs[endConn].slots++
					channelLegs[gid] = append(channelLegs[gid], channelLeg{
						startConnector:  startConn,
						endConnector:    endConn,
						routeStartIdx:   pos - 2,
						routeChannelIdx: pos - 2,
						routeEndIdx:     pos - 1,
						edge:            edgeID,
						circDistance:    circularDistance(startConn, endConn, cs),
						sides:           portSidesFrom(legSideStart, sideEnd.Opposite(), startConn, endConn),
						isGlobalOrder:   state.currentIsGlobal,
					})
					break walk

				case RNodeBend:
					crossing := node.HChannel
					if lastOrientation == Horizontal {
						crossing = node.VChannel
					}
					gid := rg.ChannelGID(lastChannel, lastOrientation)
					legSideStart := lastBend.SideForOrientation(lastOrientation)
					legSideEnd := route.Bends[bendIdx].SideForOrientation(lastOrientation)
					cs := conns.channelRange(gid)
					startConn := connectorBendPosition(cs, lastBendCrossing(lastOrientation), legSideStart)
					endConn := connectorBendPosition(cs, crossing, legSideEnd)
					cs[startConn].slots++
					cs[endConn].slots++
					channelLegs[gid] = append(channelLegs[gid], channelLeg{
						startConnector:  startConn,
						endConnector:    endConn,
						routeStartIdx:   pos - 2,
						routeChannelIdx: pos - 2,
						routeEndIdx:     pos - 1,
						edge:            edgeID,
						circDistance:    circularDistance(startConn, endConn, cs),
						sides:           portSidesFrom(legSideStart, legSideEnd, startConn, endConn),
						isGlobalOrder:   state.advance(route.Bends[bendIdx]),
					})
					lastBend = route.Bends[bendIdx]
					lastOrientation = lastOrientation.Opposite()
					lastChannel = crossing
					bendIdx++

				default:
					return nil, errors.New(errors.ErrCodeInternal, "route %d-%d has a box in its interior", route.From, route.To)
				}
			}

		default:
			return nil, errors.New(errors.ErrCodeInternal, "route %d-%d continues with a box node", route.From, route.To)
		}

		edgeRoutes = append(edgeRoutes, EdgeRoute{
			AbstractRoute: routeIdx,
			Edge:          edgeID,
			PortSlots:     make([]int, len(route.Route)),
			ChannelSlots:  make([]int, len(route.Route)),
		})
	}

	// A channel needs as many slots as the largest number of legs passing
	// between any two adjacent connectors.
	channelSlots := make([]int, channelsCount)
	for gid := 0; gid < channelsCount; gid++ {
		between := make([]int, len(conns.channelRange(gid)))
		maxSlots := 0
		for _, leg := range channelLegs[gid] {
			from, to := orderedPair(leg.startConnector, leg.endConnector)
			for idx := from; idx < to; idx++ {
				between[idx]++
				if between[idx] > maxSlots {
					maxSlots = between[idx]
				}
			}
		}
		channelSlots[gid] = maxSlots
	}

	// Derive one global route order from the pairwise stacking of legs, so
	// routes sharing several channels keep a consistent relative position.
	resolver := NewOrderResolver(len(edges))
	for gid := range channelLegs {
		legs := channelLegs[gid]
		sort.Slice(legs, func(i, j int) bool { return legCmp(&legs[i], &legs[j]) < 0 })
		for i := 0; i < len(legs); i++ {
			for j := i + 1; j < len(legs); j++ {
				rel := legRelativeOrder(&legs[i], &legs[j])
				if rel == 0 {
					continue
				}
				orderIJ := rel < 0
				if !legs[i].isGlobalOrder && !legs[j].isGlobalOrder {
					orderIJ = !orderIJ
				}
				if orderIJ {
					resolver.AddRouteOrd(legs[i].edge, legs[j].edge)
				} else {
					resolver.AddRouteOrd(legs[j].edge, legs[i].edge)
				}
			}
		}
	}
	routeOrder := make([]int, len(edges))
	for order, routeIdx := range resolver.TopologicalSort() {
		routeOrder[routeIdx] = order
	}
	if resolver.Rejected > 0 {
		observability.Algo().OnRouteOrderRejected(ctx, resolver.Rejected)
	}

	for gid := range channelLegs {
		legs := channelLegs[gid]
		for i := range legs {
			if legs[i].isGlobalOrder {
				legs[i].routeOrder = routeOrder[legs[i].edge]
			} else {
				legs[i].routeOrder = -routeOrder[legs[i].edge]
			}
		}
		sort.Slice(legs, func(i, j int) bool { return legCmp(&legs[i], &legs[j]) < 0 })
	}

	// Assign concrete slots in packing order. Legs pack from the wall
	// their endpoints sit on; crossing legs take their port slot in this
	// pass and the far-wall slot in a reverse pass.
	for gid, legs := range channelLegs {
		if len(legs) == 0 {
			continue
		}
		cs := conns.channelRange(gid)
		maxSlots := channelSlots[gid]
		slotsBetween := make([]slotRange, len(cs))
		for i := range slotsBetween {
			slotsBetween[i] = slotRange{start: 0, end: maxInt(maxSlots-1, 0)}
		}
		connSlots := make([]slotRange, len(cs))
		for i := range connSlots {
			connSlots[i] = slotRange{start: 0, end: maxInt(cs[i].slots-1, 0)}
		}

		for i := range legs {
			leg := &legs[i]
			from, to := orderedPair(leg.startConnector, leg.endConnector)
			var freeSlot int
			if leg.sides.packOrder() == connLeftOrTop {
				for idx := from; idx < to; idx++ {
					if slotsBetween[idx].start > freeSlot {
						freeSlot = slotsBetween[idx].start
					}
				}
				for idx := from; idx < to; idx++ {
					slotsBetween[idx].start = freeSlot + 1
				}
			} else {
				freeSlot = maxInt(maxSlots-1, 0)
				for idx := from; idx < to; idx++ {
					if slotsBetween[idx].end < freeSlot {
						freeSlot = slotsBetween[idx].end
					}
				}
				for idx := from; idx < to; idx++ {
					slotsBetween[idx].end = maxInt(freeSlot-1, 0)
				}
			}

			er := &edgeRoutes[leg.edge]
			er.ChannelSlots[leg.routeChannelIdx] = freeSlot
			switch leg.sides {
			case bothLeftOrTop, bothRightOrBottom:
				er.PortSlots[leg.routeStartIdx] = connSlots[leg.startConnector].consume(leg.endConnector > leg.startConnector)
				er.PortSlots[leg.routeEndIdx] = connSlots[leg.endConnector].consume(leg.endConnector < leg.startConnector)
			case changeDown:
				if leg.startConnector > leg.endConnector {
					er.PortSlots[leg.routeEndIdx] = connSlots[leg.endConnector].consume(leg.endConnector < leg.startConnector)
				} else {
					er.PortSlots[leg.routeStartIdx] = connSlots[leg.startConnector].consume(leg.endConnector > leg.startConnector)
				}
			case changeUp:
				if leg.startConnector < leg.endConnector {
					er.PortSlots[leg.routeEndIdx] = connSlots[leg.endConnector].consume(leg.endConnector < leg.startConnector)
				} else {
					er.PortSlots[leg.routeStartIdx] = connSlots[leg.startConnector].consume(leg.endConnector > leg.startConnector)
				}
			}
		}

		for i := len(legs) - 1; i >= 0; i-- {
			leg := &legs[i]
			er := &edgeRoutes[leg.edge]
			switch leg.sides {
			case changeDown:
				if leg.startConnector < leg.endConnector {
					er.PortSlots[leg.routeEndIdx] = connSlots[leg.endConnector].consume(leg.endConnector < leg.startConnector)
				} else {
					er.PortSlots[leg.routeStartIdx] = connSlots[leg.startConnector].consume(leg.endConnector > leg.startConnector)
				}
			case changeUp:
				if leg.startConnector > leg.endConnector {
					er.PortSlots[leg.routeEndIdx] = connSlots[leg.endConnector].consume(leg.endConnector < leg.startConnector)
				} else {
					er.PortSlots[leg.routeStartIdx] = connSlots[leg.startConnector].consume(leg.endConnector > leg.startConnector)
				}
			}
		}
	}

	return &EdgeRouting{
		EdgeRoutes:   edgeRoutes,
		PortSlots:    portSlots,
		ChannelSlots: channelSlots,
	}, nil
}

// RouteSegments turns the slot-assigned routes into concrete orthogonal
// polylines, one per edge in EdgeRoutes order.
func RouteSegments(rg *RoutingGraph, boxes []geom.Rect, routes []AbstractRoute, routing *EdgeRouting) [][]geom.Vec2 {
	out := make([][]geom.Vec2, 0, len(routing.EdgeRoutes))
	for _, er := range routing.EdgeRoutes {
		route := &routes[er.AbstractRoute]
		var points []geom.Vec2
		wasPort := false
		lastOrientation := Vertical
		for pointIdx, idx := range route.Route {
			n := &rg.Nodes[idx]
			switch n.Kind {
			case RNodePort:
				box := boxes[n.Box]
				port := NodePort{Node: n.Box, Side: n.Side}
				portPos := port.SlotPosition(box, er.PortSlots[pointIdx], routing.PortSlots[n.Box*4+int(n.Side)])
				orientation := n.Side.Orientation()
				totalSlots := routing.ChannelSlots[rg.ChannelGID(n.Channel, orientation)]
				channelSlot := er.ChannelSlots[pointIdx]
				if wasPort {
					channelSlot = er.ChannelSlots[pointIdx-1]
				}
				channelPoint := rg.Channel(n.Channel, orientation).SlotPosition(portPos, channelSlot, totalSlots)
				if wasPort {
					points = append(points, channelPoint, portPos)
				} else {
					points = append(points, portPos, channelPoint)
					wasPort = true
					lastOrientation = orientation
				}

			case RNodeBend:
				channelSlot := er.ChannelSlots[pointIdx-1]
				var vSlot, hSlot int
				if lastOrientation == Vertical {
					vSlot, hSlot = channelSlot, er.ChannelSlots[pointIdx]
				} else {
					vSlot, hSlot = er.ChannelSlots[pointIdx], channelSlot
				}
				vPoint := rg.VChannels[n.VChannel].SlotPosition(geom.Vec2{}, vSlot, routing.ChannelSlots[n.VChannel])
				hPoint := rg.HChannels[n.HChannel].SlotPosition(geom.Vec2{}, hSlot, routing.ChannelSlots[n.HChannel+len(rg.VChannels)])
				points = append(points, geom.V(vPoint.X, hPoint.Y))
				lastOrientation = lastOrientation.Opposite()
			}
		}
		out = append(out, points)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
