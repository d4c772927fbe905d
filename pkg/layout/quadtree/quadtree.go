// Package quadtree implements a flat Barnes-Hut quadtree for approximating
// pairwise force accumulation in O(n log n).
//
// The tree is immutable and arena-backed, not recursive. It is optimized to
// be rebuilt every solver step: convert your items into [WeightedPoint], call
// [Tree.Build] to clear and reconstruct, then for each item call
// [Tree.Accumulate] with a custom force function.
//
// # Approximation
//
// Accumulation walks the arena with "skip" pointers instead of recursion.
// A cell of size s at distance d from the target is treated as a single
// point mass when s² < θ²·d². Theta 0 disables approximation and degrades
// to exact pairwise summation; larger theta trades accuracy for speed.
package quadtree

import (
	"math"

	"github.com/gridwise/layoutkit/pkg/errors"
	"github.com/gridwise/layoutkit/pkg/geom"
)

// WeightedPoint is a point mass fed to the tree.
type WeightedPoint struct {
	Pos  geom.Vec2
	Mass float64
}

// node is one arena cell. children == 0 marks a leaf (the root can never be
// a child, so index 0 is free as a sentinel); next points at the node that
// follows when this subtree is skipped or exhausted, with 0 terminating the
// walk.
type node struct {
	bound    geom.Rect
	children int
	next     int
	cm       WeightedPoint
	lo, hi   int // item index range [lo, hi)
}

// Tree is a Barnes-Hut quadtree over a set of weighted points.
// The zero value is not usable; construct with New.
type Tree struct {
	nodes    []node
	internal []int
	items    []WeightedPoint
	theta2   float64
}

// New creates an empty tree with the given theta parameter.
func New(theta float64) *Tree {
	return &Tree{theta2: theta * theta}
}

// Build clears all internal data and reconstructs the tree from items.
// The items slice is taken over and reordered in place during partitioning.
// Leaves hold at most leafCap points. Non-finite positions are rejected
// before any insertion happens.
func (t *Tree) Build(items []WeightedPoint, leafCap int) error {
	for i, it := range items {
		if !it.Pos.IsFinite() || math.IsNaN(it.Mass) || math.IsInf(it.Mass, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "point %d is not finite", i)
		}
	}

	t.nodes = t.nodes[:0]
	t.internal = t.internal[:0]
	t.items = items
	if len(items) == 0 {
		return nil
	}

	t.nodes = append(t.nodes, node{bound: boundItems(items), lo: 0, hi: len(items)})

	for n := 0; n < len(t.nodes); n++ {
		lo, hi := t.nodes[n].lo, t.nodes[n].hi
		if hi-lo > leafCap && !coincident(t.items[lo:hi]) {
			t.subdivide(n)
		} else {
			for i := lo; i < hi; i++ {
				t.nodes[n].cm.Pos = t.nodes[n].cm.Pos.Add(t.items[i].Pos.Scale(t.items[i].Mass))
				t.nodes[n].cm.Mass += t.items[i].Mass
			}
		}
	}

	// Aggregate internal centers of mass bottom-up. Children were appended
	// after their parent, so reverse discovery order visits them first.
	for i := len(t.internal) - 1; i >= 0; i-- {
		n := t.internal[i]
		c := t.nodes[n].children
		for j := 0; j < 4; j++ {
			cm := t.nodes[c+j].cm
			t.nodes[n].cm.Pos = t.nodes[n].cm.Pos.Add(cm.Pos)
			t.nodes[n].cm.Mass += cm.Mass
		}
	}

	for i := range t.nodes {
		m := math.Max(t.nodes[i].cm.Mass, math.SmallestNonzeroFloat64)
		t.nodes[i].cm.Pos = t.nodes[i].cm.Pos.Scale(1 / m)
	}
	return nil
}

// Accumulate walks the tree and sums forceFn over points acting on target,
// substituting a cell's center of mass whenever the opening criterion allows.
func (t *Tree) Accumulate(target geom.Vec2, forceFn func(target geom.Vec2, source WeightedPoint) geom.Vec2) geom.Vec2 {
	var acc geom.Vec2
	if len(t.nodes) == 0 {
		return acc
	}

	n := 0
	for {
		nd := &t.nodes[n]
		cm := nd.cm
		d2 := target.Sub(cm.Pos).LenSq()
		s := nd.bound.MaxDim()
		switch {
		case s*s < t.theta2*d2:
			acc = acc.Add(forceFn(target, cm))
			n = nd.next
		case nd.children == 0:
			for i := nd.lo; i < nd.hi; i++ {
				acc = acc.Add(forceFn(target, t.items[i]))
			}
			n = nd.next
		default:
			n = nd.children
		}

		if n == 0 {
			return acc
		}
	}
}

// Items exposes the (reordered) points the tree was built from.
func (t *Tree) Items() []WeightedPoint { return t.items }

func (t *Tree) subdivide(n int) {
	c := len(t.nodes)
	t.nodes[n].children = c
	t.internal = append(t.internal, n)

	center := t.nodes[n].bound.Center()
	lo, hi := t.nodes[n].lo, t.nodes[n].hi

	// Three-way split: first along y, then along x inside each half.
	var split [5]int
	split[0], split[4] = lo, hi
	split[2] = lo + partition(t.items[lo:hi], func(p WeightedPoint) bool { return p.Pos.Y < center.Y })
	split[1] = lo + partition(t.items[lo:split[2]], func(p WeightedPoint) bool { return p.Pos.X < center.X })
	split[3] = split[2] + partition(t.items[split[2]:hi], func(p WeightedPoint) bool { return p.Pos.X < center.X })

	bounds := t.nodes[n].bound.Quarter()
	nexts := [4]int{c + 1, c + 2, c + 3, t.nodes[n].next}
	for i := 0; i < 4; i++ {
		t.nodes = append(t.nodes, node{
			bound: bounds[i],
			lo:    split[i],
			hi:    split[i+1],
			next:  nexts[i],
		})
	}
}

// coincident reports whether every point shares one position. No amount
// of subdivision separates such a cell, so it stays a leaf over the cap.
func coincident(items []WeightedPoint) bool {
	for _, it := range items[1:] {
		if it.Pos != items[0].Pos {
			return false
		}
	}
	return true
}

// partition reorders s in place so items satisfying pred come first and
// returns the boundary index (Hoare-style, no allocation).
func partition(s []WeightedPoint, pred func(WeightedPoint) bool) int {
	if len(s) == 0 {
		return 0
	}

	l, r := 0, len(s)-1
	for {
		for l <= r && pred(s[l]) {
			l++
		}
		for l < r && !pred(s[r]) {
			r--
		}
		if l >= r {
			return l
		}
		s[l], s[r] = s[r], s[l]
		l++
		r--
	}
}

func boundItems(items []WeightedPoint) geom.Rect {
	bound := geom.EmptyRect()
	for _, it := range items {
		bound = bound.ExtendWith(it.Pos)
	}
	return bound
}
