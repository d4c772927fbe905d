package ortho

// OrderResolver accumulates pairwise "route a stacks over route b"
// relations in a directed graph and produces one global route order.
// Relations that would close a cycle are rejected and counted instead of
// applied, so a consistent order always exists.
type OrderResolver struct {
	order [][]int
	// Rejected counts the ordering relations dropped to keep the graph
	// acyclic.
	Rejected int
}

// NewOrderResolver creates a resolver for the given number of routes.
func NewOrderResolver(routes int) *OrderResolver {
	return &OrderResolver{order: make([][]int, routes)}
}

// AddRouteOrd records that greater stacks over less. It reports false and
// counts a rejection when the relation would create a cycle.
func (r *OrderResolver) AddRouteOrd(greater, less int) bool {
	if r.hasPath(less, greater) {
		r.Rejected++
		return false
	}
	r.order[greater] = append(r.order[greater], less)
	return true
}

func (r *OrderResolver) hasPath(start, end int) bool {
	if start == end {
		return true
	}
	visited := make([]bool, len(r.order))
	queue := []int{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node] {
			continue
		}
		visited[node] = true
		for _, neighbor := range r.order[node] {
			if neighbor == end {
				return true
			}
			if !visited[neighbor] {
				queue = append(queue, neighbor)
			}
		}
	}
	return false
}

// TopologicalSort returns the routes with greater routes first. AddRouteOrd
// keeps the graph acyclic, so the sort always consumes every route.
func (r *OrderResolver) TopologicalSort() []int {
	inDegree := make([]int, len(r.order))
	for _, edges := range r.order {
		for _, to := range edges {
			inDegree[to]++
		}
	}

	var zero []int
	for idx, deg := range inDegree {
		if deg == 0 {
			zero = append(zero, idx)
		}
	}

	sorted := make([]int, 0, len(r.order))
	for len(zero) > 0 {
		node := zero[len(zero)-1]
		zero = zero[:len(zero)-1]
		sorted = append(sorted, node)
		for _, neighbor := range r.order[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				zero = append(zero, neighbor)
			}
		}
	}

	if len(sorted) != len(r.order) {
		panic("ortho: cycle in route order graph")
	}
	return sorted
}
