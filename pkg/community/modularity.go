package community

import "github.com/gridwise/layoutkit/pkg/graph"

// Modularity computes the modularity of a partition directly from its
// definition. It is O(n + e) per call and exists as the reference the
// incremental gain bookkeeping is checked against; the detection driver
// never calls it.
func Modularity(nodesLen int, edges []graph.Edge, nodeCommunity []int) float64 {
	m := float64(len(edges))
	adj := make([][]int, nodesLen)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}

	members := make(map[int][]int)
	for node, c := range nodeCommunity {
		members[c] = append(members[c], node)
	}

	k := make([]float64, nodesLen)
	for node, neighbors := range adj {
		k[node] = float64(len(neighbors))
	}

	q := 0.0
	for _, nodes := range members {
		inWeight := 0.0
		totDegree := 0.0
		for _, u := range nodes {
			totDegree += k[u]
			for _, v := range adj[u] {
				if nodeCommunity[v] == nodeCommunity[u] {
					inWeight++
				}
			}
		}
		inWeight /= 2.0
		frac := totDegree / (2.0 * m)
		q += inWeight/m - frac*frac
	}
	return q
}
