package ortho

import "github.com/gridwise/layoutkit/pkg/geom"

type posMoveKind int

const (
	moveBox posMoveKind = iota
	moveChannel
	addChannelWidth
)

// posMove is one pending adjustment: move a box to a new min coordinate,
// move a channel, or widen a channel by a delta.
type posMove struct {
	kind  posMoveKind
	value float64
	idx   int
}

type bendPair struct {
	own, orth int
}

// direction abstracts one axis of the resize pass so the same worklist
// logic serves both vertical channels (x axis) and horizontal ones (y
// axis).
type direction interface {
	rectMin(r geom.Rect) float64
	rectMax(r geom.Rect) float64
	setMax(r *geom.Rect, v float64)
	addMax(r *geom.Rect, add float64) float64
	moveRect(r *geom.Rect, add float64) float64
	channels(rg *RoutingGraph) []Channel
	channel(rg *RoutingGraph, id int) *Channel
	orthChannel(rg *RoutingGraph, id int) *Channel
	// maxPortSide is the box side whose ports touch the channel's max
	// wall, so those boxes get pushed when the channel grows.
	maxPortSide() Side
	// minPortSide is the box side whose ports touch the channel's min
	// wall; the channel follows when such a box moves.
	minPortSide() Side
	bendPairs(rg *RoutingGraph) []bendPair
}

type directionX struct{}

func (directionX) rectMin(r geom.Rect) float64 { return r.Min.X }
func (directionX) rectMax(r geom.Rect) float64 { return r.Max.X }
func (directionX) setMax(r *geom.Rect, v float64) {
	r.Max.X = v
}
func (directionX) addMax(r *geom.Rect, add float64) float64 {
	r.Max.X += add
	return r.Max.X
}
func (directionX) moveRect(r *geom.Rect, add float64) float64 {
	r.Min.X += add
	r.Max.X += add
	return r.Max.X
}
func (directionX) channels(rg *RoutingGraph) []Channel { return rg.VChannels }
func (directionX) channel(rg *RoutingGraph, id int) *Channel {
	return &rg.VChannels[id]
}
func (directionX) orthChannel(rg *RoutingGraph, id int) *Channel {
	return &rg.HChannels[id]
}
func (directionX) maxPortSide() Side { return SideLeft }
func (directionX) minPortSide() Side { return SideRight }
func (directionX) bendPairs(rg *RoutingGraph) []bendPair {
	var out []bendPair
	for i := rg.NodesLen * 5; i < len(rg.Nodes); i++ {
		n := &rg.Nodes[i]
		if n.Kind != RNodeBend {
			break
		}
		out = append(out, bendPair{own: n.VChannel, orth: n.HChannel})
	}
	return out
}

type directionY struct{}

func (directionY) rectMin(r geom.Rect) float64 { return r.Min.Y }
func (directionY) rectMax(r geom.Rect) float64 { return r.Max.Y }
func (directionY) setMax(r *geom.Rect, v float64) {
	r.Max.Y = v
}
func (directionY) addMax(r *geom.Rect, add float64) float64 {
	r.Max.Y += add
	return r.Max.Y
}
func (directionY) moveRect(r *geom.Rect, add float64) float64 {
	r.Min.Y += add
	r.Max.Y += add
	return r.Max.Y
}
func (directionY) channels(rg *RoutingGraph) []Channel { return rg.HChannels }
func (directionY) channel(rg *RoutingGraph, id int) *Channel {
	return &rg.HChannels[id]
}
func (directionY) orthChannel(rg *RoutingGraph, id int) *Channel {
	return &rg.VChannels[id]
}
func (directionY) maxPortSide() Side { return SideTop }
func (directionY) minPortSide() Side { return SideBottom }
func (directionY) bendPairs(rg *RoutingGraph) []bendPair {
	var out []bendPair
	for i := rg.NodesLen * 5; i < len(rg.Nodes); i++ {
		n := &rg.Nodes[i]
		if n.Kind != RNodeBend {
			break
		}
		out = append(out, bendPair{own: n.HChannel, orth: n.VChannel})
	}
	return out
}

// ResizeChannels widens channels to their minimal widths and shifts boxes
// and downstream channels to make room, first along x, then along y. Boxes
// keep their sizes; only positions change.
func ResizeChannels(rg *RoutingGraph, boxes []geom.Rect, minWidthVertical, minWidthHorizontal []float64) {
	if len(minWidthVertical) != len(rg.VChannels) || len(minWidthHorizontal) != len(rg.HChannels) {
		panic("ortho: min width count does not match channel count")
	}
	resizeDirection(directionX{}, rg, boxes, minWidthVertical)
	resizeDirection(directionY{}, rg, boxes, minWidthHorizontal)
}

func maxSidePorts(c *Channel, side Side) []int {
	var out []int
	for _, p := range c.Ports {
		if p.Kind == PortNode && p.Side == side {
			out = append(out, p.Node)
		}
	}
	return out
}

func resizeDirection(d direction, rg *RoutingGraph, boxes []geom.Rect, minWidth []float64) {
	var queue []posMove
	for channelIdx, want := range minWidth {
		if delta := want - d.channel(rg, channelIdx).Width(); delta > 0 {
			queue = append(queue, posMove{kind: addChannelWidth, value: delta, idx: channelIdx})
		}
	}

	// The channel each box pushes when it moves: the one its min-wall
	// port connects to.
	followChannel := make([]int, rg.NodesLen)
	for i := range followChannel {
		followChannel[i] = -1
	}
	for channelID := range d.channels(rg) {
		for _, p := range d.channel(rg, channelID).Ports {
			if p.Kind == PortNode && p.Side == d.minPortSide() {
				followChannel[p.Node] = channelID
			}
		}
	}

	// Channels whose far wall lines up with a crossing channel's far wall
	// before resizing get re-aligned afterwards.
	orthMargin := make(map[int][]int)
	for _, bp := range d.bendPairs(rg) {
		if d.rectMax(d.channel(rg, bp.own).Rect) == d.rectMax(d.orthChannel(rg, bp.orth).Rect) {
			orthMargin[bp.own] = append(orthMargin[bp.own], bp.orth)
		}
	}

	pushFront := func(m posMove) {
		queue = append([]posMove{m}, queue...)
	}

	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		switch m.kind {
		case moveBox:
			rect := &boxes[m.idx]
			delta := m.value - d.rectMin(*rect)
			if delta <= 0 {
				break
			}
			newMax := d.moveRect(rect, delta)
			if fc := followChannel[m.idx]; fc >= 0 {
				if newMax-d.rectMin(d.channel(rg, fc).Rect) > 0 {
					pushFront(posMove{kind: moveChannel, value: newMax, idx: fc})
				}
			}

		case moveChannel:
			channel := d.channel(rg, m.idx)
			delta := m.value - d.rectMin(channel.Rect)
			if delta <= 0 {
				break
			}
			newMax := d.moveRect(&channel.Rect, delta)
			for _, node := range maxSidePorts(channel, d.maxPortSide()) {
				if newMax-d.rectMin(boxes[node]) > 0 {
					pushFront(posMove{kind: moveBox, value: newMax, idx: node})
				}
			}

		case addChannelWidth:
			channel := d.channel(rg, m.idx)
			newMax := d.addMax(&channel.Rect, m.value)
			for _, node := range maxSidePorts(channel, d.maxPortSide()) {
				if newMax-d.rectMin(boxes[node]) > 0 {
					pushFront(posMove{kind: moveBox, value: newMax, idx: node})
				}
			}
		}
	}

	for channelID, orthIDs := range orthMargin {
		maxVal := d.rectMax(d.channel(rg, channelID).Rect)
		for _, o := range orthIDs {
			d.setMax(&d.orthChannel(rg, o).Rect, maxVal)
		}
	}
}
