package ortho

import (
	"sort"

	"github.com/gridwise/layoutkit/pkg/geom"
)

// channelMargin pads the bounding box of all node boxes so the outermost
// channels have room around the drawing.
const channelMargin = 20.0

// PortKind tags a channel port as a node connection or a channel crossing.
type PortKind int

const (
	PortNode PortKind = iota
	PortBend
)

// ChannelPort is a point where an edge can enter or leave a channel. Node
// ports connect a channel to one side of a node box; bend ports connect it
// to a crossing channel of the opposite orientation.
type ChannelPort struct {
	// Position is the coordinate along the channel axis (y for vertical
	// channels, x for horizontal ones).
	Position float64
	Kind     PortKind
	Node     int  // owning box (PortNode)
	Side     Side // box side the port sits on (PortNode)
	Crossing int  // index of the crossing channel (PortBend)
	RNode    int  // routing graph node backing this port
}

// Channel is a free rectangular corridor between node boxes. Vertical
// channels carry vertical edge segments, horizontal ones carry horizontal
// segments.
type Channel struct {
	Rect        geom.Rect
	Orientation Orientation
	Ports       []ChannelPort
}

// mergeVertical unions the vertical extent with other and intersects the
// horizontal extent, keeping the corridor free. Ports are taken over.
func (c *Channel) mergeVertical(other *Channel) {
	c.Rect.Min.Y = minf(c.Rect.Min.Y, other.Rect.Min.Y)
	c.Rect.Max.Y = maxf(c.Rect.Max.Y, other.Rect.Max.Y)
	c.Rect.Min.X = maxf(c.Rect.Min.X, other.Rect.Min.X)
	c.Rect.Max.X = minf(c.Rect.Max.X, other.Rect.Max.X)
	c.Ports = append(c.Ports, other.Ports...)
	other.Ports = nil
}

// mergeHorizontal is the mirrored merge for horizontal channels.
func (c *Channel) mergeHorizontal(other *Channel) {
	c.Rect.Min.X = minf(c.Rect.Min.X, other.Rect.Min.X)
	c.Rect.Max.X = maxf(c.Rect.Max.X, other.Rect.Max.X)
	c.Rect.Min.Y = maxf(c.Rect.Min.Y, other.Rect.Min.Y)
	c.Rect.Max.Y = minf(c.Rect.Max.Y, other.Rect.Max.Y)
	c.Ports = append(c.Ports, other.Ports...)
	other.Ports = nil
}

// PointOnRepresentative projects a port position onto the channel's center
// line.
func (c *Channel) PointOnRepresentative(portPos geom.Vec2) geom.Vec2 {
	if c.Orientation == Vertical {
		return geom.V(c.Rect.Center().X, portPos.Y)
	}
	return geom.V(portPos.X, c.Rect.Center().Y)
}

// MiddlePos returns the cross-axis center of the channel.
func (c *Channel) MiddlePos() float64 {
	if c.Orientation == Vertical {
		return c.Rect.Center().X
	}
	return c.Rect.Center().Y
}

// SlotPosition places a segment at one of the evenly spaced parallel slots
// across the channel, keeping the along-axis coordinate of portPos.
func (c *Channel) SlotPosition(portPos geom.Vec2, slot, totalSlots int) geom.Vec2 {
	if c.Orientation == Vertical {
		spacing := c.Rect.Width() / (float64(totalSlots) + 1.0)
		return geom.V(c.Rect.Min.X+spacing*(float64(slot)+1.0), portPos.Y)
	}
	spacing := c.Rect.Height() / (float64(totalSlots) + 1.0)
	return geom.V(portPos.X, c.Rect.Min.Y+spacing*(float64(slot)+1.0))
}

// Width returns the cross-axis extent of the channel.
func (c *Channel) Width() float64 {
	if c.Orientation == Horizontal {
		return c.Rect.Height()
	}
	return c.Rect.Width()
}

// areaLimit is one box edge used while sweeping for free corridors. A
// node of -1 marks the synthetic limit at the expanded bounding box.
type areaLimit struct {
	coord    float64
	min, max float64
	node     int
}

func sortLimits(limits []areaLimit) {
	sort.Slice(limits, func(i, j int) bool { return limits[i].coord < limits[j].coord })
}

// BuildChannels sweeps the box edges and returns the vertical and
// horizontal channels between them. Each node box contributes one port per
// side; overlapping corridors of the same orientation are merged.
func BuildChannels(boxes []geom.Rect) (vchannels, hchannels []Channel) {
	bound := geom.EmptyRect()
	for _, b := range boxes {
		bound = bound.Union(b)
	}
	bound = bound.Expand(channelMargin)

	limitsVL := make([]areaLimit, 0, len(boxes)+1)
	limitsVR := make([]areaLimit, 0, len(boxes)+1)
	limitsHT := make([]areaLimit, 0, len(boxes)+1)
	limitsHB := make([]areaLimit, 0, len(boxes)+1)
	for i, b := range boxes {
		limitsVL = append(limitsVL, areaLimit{coord: b.Min.X, min: b.Min.Y, max: b.Max.Y, node: i})
		limitsVR = append(limitsVR, areaLimit{coord: b.Max.X, min: b.Min.Y, max: b.Max.Y, node: i})
		limitsHT = append(limitsHT, areaLimit{coord: b.Min.Y, min: b.Min.X, max: b.Max.X, node: i})
		limitsHB = append(limitsHB, areaLimit{coord: b.Max.Y, min: b.Min.X, max: b.Max.X, node: i})
	}
	limitsVL = append(limitsVL, areaLimit{coord: bound.Max.X, min: bound.Min.Y, max: bound.Max.Y, node: -1})
	limitsVR = append(limitsVR, areaLimit{coord: bound.Min.X, min: bound.Min.Y, max: bound.Max.Y, node: -1})
	limitsHT = append(limitsHT, areaLimit{coord: bound.Max.Y, min: bound.Min.X, max: bound.Max.X, node: -1})
	limitsHB = append(limitsHB, areaLimit{coord: bound.Min.Y, min: bound.Min.X, max: bound.Max.X, node: -1})
	sortLimits(limitsVL)
	sortLimits(limitsVR)
	sortLimits(limitsHT)
	sortLimits(limitsHB)

	// Vertical channels swept from the left edges of boxes. Each left edge
	// is the right wall of a corridor; the tightest enclosing free
	// rectangle around it becomes the channel.
nextLeftWall:
	for _, right := range limitsVL {
		for t := len(limitsHB) - 1; t >= 0; t-- {
			top := limitsHB[t]
			if top.coord > right.min {
				continue
			}
			if right.coord < top.min || right.coord > top.max {
				continue
			}
			for _, bottom := range limitsHT {
				if bottom.coord < right.max {
					continue
				}
				if right.coord < bottom.min || right.coord > bottom.max {
					continue
				}
				for l := len(limitsVR) - 1; l >= 0; l-- {
					left := limitsVR[l]
					if left.coord > right.coord {
						continue
					}
					if left.min <= bottom.coord && top.coord <= left.max {
						channel := Channel{
							Rect:        geom.RectFromMinMax(geom.V(left.coord, top.coord), geom.V(right.coord, bottom.coord)),
							Orientation: Vertical,
						}
						if right.node >= 0 {
							channel.Ports = append(channel.Ports, ChannelPort{
								Position: boxes[right.node].Center().Y,
								Kind:     PortNode,
								Node:     right.node,
								Side:     SideLeft,
								RNode:    -1,
							})
						}
						vchannels = mergeOrAppend(vchannels, &channel, Vertical)
						continue nextLeftWall
					}
				}
			}
		}
	}

	// Vertical channels swept from the right edges of boxes.
nextRightWall:
	for _, left := range limitsVR {
		for t := len(limitsHB) - 1; t >= 0; t-- {
			top := limitsHB[t]
			if top.coord > left.min {
				continue
			}
			if left.coord < top.min || left.coord > top.max {
				continue
			}
			for _, bottom := range limitsHT {
				if bottom.coord < left.max {
					continue
				}
				if left.coord < bottom.min || left.coord > bottom.max {
					continue
				}
				for _, right := range limitsVL {
					if left.coord > right.coord {
						continue
					}
					if right.min <= bottom.coord && top.coord <= right.max {
						channel := Channel{
							Rect:        geom.RectFromMinMax(geom.V(left.coord, top.coord), geom.V(right.coord, bottom.coord)),
							Orientation: Vertical,
						}
						if left.node >= 0 {
							channel.Ports = append(channel.Ports, ChannelPort{
								Position: boxes[left.node].Center().Y,
								Kind:     PortNode,
								Node:     left.node,
								Side:     SideRight,
								RNode:    -1,
							})
						}
						vchannels = mergeOrAppend(vchannels, &channel, Vertical)
						continue nextRightWall
					}
				}
			}
		}
	}

	// Horizontal channels swept from the top edges of boxes.
nextTopWall:
	for _, bottom := range limitsHT {
		for l := len(limitsVR) - 1; l >= 0; l-- {
			left := limitsVR[l]
			if left.coord > bottom.min {
				continue
			}
			if bottom.coord < left.min || bottom.coord > left.max {
				continue
			}
			for _, right := range limitsVL {
				if right.coord < bottom.max {
					continue
				}
				if bottom.coord < right.min || bottom.coord > right.max {
					continue
				}
				for t := len(limitsHB) - 1; t >= 0; t-- {
					top := limitsHB[t]
					if top.coord > bottom.coord {
						continue
					}
					if top.min <= right.coord && left.coord <= top.max {
						channel := Channel{
							Rect:        geom.RectFromMinMax(geom.V(left.coord, top.coord), geom.V(right.coord, bottom.coord)),
							Orientation: Horizontal,
						}
						if bottom.node >= 0 {
							channel.Ports = append(channel.Ports, ChannelPort{
								Position: boxes[bottom.node].Center().X,
								Kind:     PortNode,
								Node:     bottom.node,
								Side:     SideTop,
								RNode:    -1,
							})
						}
						hchannels = mergeOrAppend(hchannels, &channel, Horizontal)
						continue nextTopWall
					}
				}
			}
		}
	}

	// Horizontal channels swept from the bottom edges of boxes.
nextBottomWall:
	for _, top := range limitsHB {
		for l := len(limitsVR) - 1; l >= 0; l-- {
			left := limitsVR[l]
			if left.coord > top.min {
				continue
			}
			if top.coord < left.min || top.coord > left.max {
				continue
			}
			for _, right := range limitsVL {
				if right.coord < top.max {
					continue
				}
				if top.coord < right.min || top.coord > right.max {
					continue
				}
				for _, bottom := range limitsHT {
					if top.coord > bottom.coord {
						continue
					}
					if bottom.min <= right.coord && left.coord <= bottom.max {
						channel := Channel{
							Rect:        geom.RectFromMinMax(geom.V(left.coord, top.coord), geom.V(right.coord, bottom.coord)),
							Orientation: Horizontal,
						}
						if top.node >= 0 {
							channel.Ports = append(channel.Ports, ChannelPort{
								Position: boxes[top.node].Center().X,
								Kind:     PortNode,
								Node:     top.node,
								Side:     SideBottom,
								RNode:    -1,
							})
						}
						hchannels = mergeOrAppend(hchannels, &channel, Horizontal)
						continue nextBottomWall
					}
				}
			}
		}
	}

	return vchannels, hchannels
}

// mergeOrAppend folds channel into the first intersecting channel of the
// same orientation. Merging unions the along-axis extent, so the grown
// corridor can reach a channel it previously cleared; the merge repeats
// until the result is disjoint from the rest.
func mergeOrAppend(channels []Channel, channel *Channel, o Orientation) []Channel {
	merged := *channel
	for {
		hit := -1
		for i := range channels {
			if channels[i].Rect.Intersects(merged.Rect) {
				hit = i
				break
			}
		}
		if hit < 0 {
			return append(channels, merged)
		}
		absorbed := channels[hit]
		channels = append(channels[:hit], channels[hit+1:]...)
		if o == Vertical {
			absorbed.mergeVertical(&merged)
		} else {
			absorbed.mergeHorizontal(&merged)
		}
		merged = absorbed
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
