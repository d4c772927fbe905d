package graph

import (
	"slices"
)

// =============================================================================
// Snapshot - Boundary Input Type
// =============================================================================

// Snapshot is the graph view a host hands to the engine for one computation.
// It is treated as borrowed-immutable: no algorithm in this module mutates a
// Snapshot, and results come back as fresh slices owned by the caller.
//
// Node identity is positional: nodes are the integers [0, NodeCount) and
// every Edge refers to nodes by index. The host owns any mapping from
// indices to its own identifiers.
type Snapshot struct {
	NodeCount int    `json:"node_count"`
	Edges     []Edge `json:"edges"`
	Sizes     []Size `json:"sizes,omitempty"`  // per-node footprint, required for routing
	Hidden    TagSet `json:"hidden,omitempty"` // edge tags excluded from computation
}

// Size is a node's rectangular footprint.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed connection between two node indices. Direction matters
// for routing; force and community computations treat edges as undirected.
type Edge struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	Tag       int     `json:"tag,omitempty"`       // filterable edge type
	Curvature float64 `json:"curvature,omitempty"` // bend offset hint for parallel edges
}

// IsSelf reports whether the edge connects a node to itself.
func (e Edge) IsSelf() bool { return e.From == e.To }

// =============================================================================
// TagSet - Sorted Tag Set
// =============================================================================

// TagSet is a sorted set of edge tags. The zero value is the empty set.
// Membership uses binary search, so the slice must stay sorted; construct
// with NewTagSet or Add rather than by hand.
type TagSet []int

// NewTagSet builds a TagSet from arbitrary tags, sorting and deduplicating.
func NewTagSet(tags ...int) TagSet {
	s := slices.Clone(tags)
	slices.Sort(s)
	return slices.Compact(s)
}

// Contains reports whether tag is in the set.
func (s TagSet) Contains(tag int) bool {
	_, ok := slices.BinarySearch(s, tag)
	return ok
}

// Add returns the set with tag inserted, preserving sort order.
// The receiver may be reused; callers keep the returned slice.
func (s TagSet) Add(tag int) TagSet {
	i, ok := slices.BinarySearch(s, tag)
	if ok {
		return s
	}
	return slices.Insert(s, i, tag)
}

// Remove returns the set without tag.
func (s TagSet) Remove(tag int) TagSet {
	i, ok := slices.BinarySearch(s, tag)
	if !ok {
		return s
	}
	return slices.Delete(s, i, i+1)
}

// =============================================================================
// Snapshot Helpers
// =============================================================================

// VisibleEdges returns the edges whose tag is not hidden. When nothing is
// hidden the original slice is returned unchanged.
func (snap *Snapshot) VisibleEdges() []Edge {
	if len(snap.Hidden) == 0 {
		return snap.Edges
	}
	out := make([]Edge, 0, len(snap.Edges))
	for _, e := range snap.Edges {
		if !snap.Hidden.Contains(e.Tag) {
			out = append(out, e)
		}
	}
	return out
}
