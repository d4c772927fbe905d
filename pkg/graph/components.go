package graph

// =============================================================================
// Connected Components - Union-Find
// =============================================================================

// Components partitions the nodes [0, nodesLen) into connected components
// using the given edges, ignoring direction. Each returned slice holds the
// node indices of one component in ascending order; components are ordered
// by their smallest member.
func Components(nodesLen int, edges []Edge) [][]int {
	parent := make([]int, nodesLen)
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]] // path halving
			x = parent[x]
		}
		return x
	}

	for _, e := range edges {
		a, b := find(e.From), find(e.To)
		if a != b {
			parent[b] = a
		}
	}

	byRoot := make(map[int][]int, nodesLen)
	order := make([]int, 0, nodesLen)
	for i := 0; i < nodesLen; i++ {
		r := find(i)
		if _, seen := byRoot[r]; !seen {
			order = append(order, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}

	out := make([][]int, 0, len(order))
	for _, r := range order {
		out = append(out, byRoot[r])
	}
	return out
}
