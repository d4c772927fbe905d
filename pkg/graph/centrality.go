package graph

// =============================================================================
// Degree Centrality
// =============================================================================

// DegreeCentrality returns, for each node in [0, nodesLen), the number of
// incident edges. Direction is ignored; a self-loop counts twice, once per
// endpoint.
func DegreeCentrality(nodesLen int, edges []Edge) []float64 {
	deg := make([]float64, nodesLen)
	for _, e := range edges {
		deg[e.From]++
		deg[e.To]++
	}
	return deg
}

// Normalize scales values in place so the maximum becomes 1. Values that
// are all zero (or an empty slice) are left untouched.
func Normalize(values []float64) {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return
	}
	for i := range values {
		values[i] /= max
	}
}
