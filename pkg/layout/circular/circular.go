// Package circular arranges a set of nodes on a circle and searches for a
// visit order that keeps edges short and crossings rare.
//
// Ordering is a genetic search: the population is seeded with randomized
// depth-first traversals (which already tend to keep neighbors adjacent),
// then evolved with tournament selection, order crossover, and swap
// mutation. Fitness is [CrossingSweepCost], the sum of circular edge index
// distances plus the number of edge crossings counted by a sweepline.
// Components with more than two nodes are optimized independently; smaller
// ones keep their input order.
package circular

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/observability"
)

// Options tunes the genetic order search.
type Options struct {
	PopulationSize int     `toml:"population_size" json:"population_size,omitempty"`
	Generations    int     `toml:"generations" json:"generations,omitempty"`
	CrossoverRate  float64 `toml:"crossover_rate" json:"crossover_rate,omitempty"`
	// MutationRate is the per-position swap chance before scaling; the
	// effective rate is MutationRate*10/n so larger orders do not churn.
	MutationRate float64 `toml:"mutation_rate" json:"mutation_rate,omitempty"`
	Seed         uint64  `toml:"seed" json:"seed,omitempty"`
}

// DefaultOptions returns the tuning used by the interactive layout.
func DefaultOptions() Options {
	return Options{
		PopulationSize: 50,
		Generations:    100,
		CrossoverRate:  0.5,
		MutationRate:   0.01,
	}
}

// maxStagnation stops the search after this many generations without
// improvement.
const maxStagnation = 15

// Layout repositions the given nodes onto a circle derived from their
// current bounding box and returns a copy of positions with those nodes
// moved. Edges with a hidden tag or an endpoint outside the node set are
// ignored. Fewer than one node is a no-op.
func Layout(ctx context.Context, nodes []int, positions []geom.Vec2, edges []graph.Edge, hidden graph.TagSet, opts Options) []geom.Vec2 {
	out := make([]geom.Vec2, len(positions))
	copy(out, positions)
	if len(nodes) == 0 {
		return out
	}
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, "circular", len(nodes))

	inSet := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		inSet[n] = true
	}
	var kept []graph.Edge
	for _, e := range edges {
		if !hidden.Contains(e.Tag) && inSet[e.From] && inSet[e.To] {
			kept = append(kept, e)
		}
	}

	bound := geom.EmptyRect()
	for _, n := range nodes {
		bound = bound.ExtendWith(positions[n])
	}
	center := bound.Center()
	radius := center.Sub(bound.Min).Len()

	order := Order(nodes, kept, opts)

	circle := CirclePositions(center, radius, len(nodes))
	for i, p := range circle {
		out[order[i]] = p
	}
	observability.Layout().OnLayoutComplete(ctx, "circular", time.Since(start), nil)
	return out
}

// Order returns a circular visit order covering every given node. Each
// connected component is ordered by the genetic search; components of one
// or two nodes keep their input order.
func Order(nodes []int, edges []graph.Edge, opts Options) []int {
	order := make([]int, 0, len(nodes))
	for _, component := range components(nodes, edges) {
		if len(component) > 2 {
			order = append(order, Optimize(filterEdges(edges, component), opts)...)
		} else {
			order = append(order, component...)
		}
	}
	return order
}

// CirclePositions returns n points evenly spaced on a circle, starting at
// the top and proceeding clockwise in screen coordinates.
func CirclePositions(center geom.Vec2, radius float64, n int) []geom.Vec2 {
	positions := make([]geom.Vec2, n)
	for i := 0; i < n; i++ {
		angle := 2.0*math.Pi*float64(i)/float64(n) - math.Pi/2.0
		positions[i] = geom.V(
			center.X+radius*math.Cos(angle),
			center.Y+radius*math.Sin(angle),
		)
	}
	return positions
}

// =============================================================================
// Cost
// =============================================================================

func circularDistanceByIndex(i, j, n int) float64 {
	d := math.Abs(float64(i - j))
	return math.Min(d, float64(n)-d)
}

// CrossingSweepCost scores an order: the sum of circular index distances of
// all edges plus the number of edge crossings. Crossings are counted by
// sweeping edge intervals by start position, so the cost is near-linear in
// well-behaved orders instead of quadratic in edges.
func CrossingSweepCost(order []int, edges []graph.Edge, n int) float64 {
	pos := make(map[int]int, len(order))
	for i, node := range order {
		pos[node] = i
	}

	total := 0.0
	for _, e := range edges {
		total += circularDistanceByIndex(pos[e.From], pos[e.To], n)
	}

	type interval struct {
		start, end int
	}
	intervals := make([]interval, len(edges))
	for i, e := range edges {
		p1, p2 := pos[e.From], pos[e.To]
		intervals[i] = interval{start: min(p1, p2), end: max(p1, p2)}
	}
	slices.SortFunc(intervals, func(a, b interval) int { return a.start - b.start })

	var active []interval
	crossings := 0
	for _, iv := range intervals {
		for _, a := range active {
			if a.start < iv.start && iv.start < a.end && iv.end > a.end {
				crossings++
			}
		}
		active = append(active, iv)

		keep := active[:0]
		for _, a := range active {
			if a.end >= iv.start {
				keep = append(keep, a)
			}
		}
		active = keep
	}

	return total + float64(crossings)
}

// =============================================================================
// Genetic Search
// =============================================================================

// Optimize returns the best node order found for the nodes appearing in
// edges. Every endpoint takes part; the caller filters edges to the
// component it wants ordered.
func Optimize(edges []graph.Edge, opts Options) []int {
	adj, startNode := adjacencyWithStart(edges)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	n := len(adj)
	mutationRate := opts.MutationRate * 10.0 / float64(n)

	population := make([][]int, opts.PopulationSize)
	for i := range population {
		population[i] = randomDFS(adj, startNode, rng)
	}

	bestFitness := math.Inf(1)
	var best []int
	stagnation := 0

	for g := 0; g < opts.Generations; g++ {
		fitnesses := make([]float64, len(population))
		improved := false
		for i, ind := range population {
			fitnesses[i] = CrossingSweepCost(ind, edges, n)
			if fitnesses[i] < bestFitness {
				bestFitness = fitnesses[i]
				best = append(best[:0], ind...)
				improved = true
			}
		}
		if improved {
			stagnation = 0
		} else {
			stagnation++
			if stagnation >= maxStagnation {
				break
			}
		}

		next := make([][]int, 0, opts.PopulationSize)
		for len(next) < opts.PopulationSize {
			parent1 := tournament(population, fitnesses, rng)
			var child []int
			if rng.Float64() < opts.CrossoverRate {
				parent2 := tournament(population, fitnesses, rng)
				child = crossover(parent1, parent2, rng)
			} else {
				child = append([]int(nil), parent1...)
			}
			mutate(child, mutationRate, rng)
			next = append(next, child)
		}
		population = next
	}

	return best
}

func adjacencyWithStart(edges []graph.Edge) (map[int][]int, int) {
	adj := make(map[int][]int)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}

	// Start traversals at a minimum-degree node so chains unroll from
	// their ends. Ties go to the smallest node id so the search is
	// reproducible for a given seed.
	startNode := -1
	minNeighbors := math.MaxInt
	for node, neighbors := range adj {
		if len(neighbors) < minNeighbors ||
			(len(neighbors) == minNeighbors && node < startNode) {
			startNode = node
			minNeighbors = len(neighbors)
		}
	}
	return adj, startNode
}

func randomDFS(adj map[int][]int, startNode int, rng *rand.Rand) []int {
	visited := make(map[int]bool, len(adj))
	stack := []int{startNode}
	order := make([]int, 0, len(adj))

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		order = append(order, node)

		shuffled := append([]int(nil), adj[node]...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for _, n := range shuffled {
			if !visited[n] {
				stack = append(stack, n)
			}
		}
	}
	return order
}

// tournament picks the fittest of 3 random distinct individuals.
func tournament(population [][]int, fitnesses []float64, rng *rand.Rand) []int {
	k := 3
	if k > len(population) {
		k = len(population)
	}
	bestIdx := -1
	for _, i := range rng.Perm(len(population))[:k] {
		if bestIdx < 0 || fitnesses[i] < fitnesses[bestIdx] {
			bestIdx = i
		}
	}
	return population[bestIdx]
}

// crossover keeps a random slice of parent1 in place and fills the rest
// with parent2's nodes in their order.
func crossover(parent1, parent2 []int, rng *rand.Rand) []int {
	size := len(parent1)
	i, j := rng.IntN(size), rng.IntN(size)
	a, b := min(i, j), max(i, j)

	child := make([]int, size)
	taken := make(map[int]bool, b-a)
	for i := range child {
		child[i] = -1
	}
	for i := a; i < b; i++ {
		child[i] = parent1[i]
		taken[parent1[i]] = true
	}

	j = 0
	for _, x := range parent2 {
		if taken[x] {
			continue
		}
		for child[j] != -1 {
			j++
		}
		child[j] = x
	}
	return child
}

func mutate(individual []int, mutationRate float64, rng *rand.Rand) {
	for i := range individual {
		if rng.Float64() < mutationRate {
			j := rng.IntN(len(individual))
			individual[i], individual[j] = individual[j], individual[i]
		}
	}
}

// =============================================================================
// Components
// =============================================================================

// components splits an arbitrary node set into connected components under
// the given edges. Node ids need not be contiguous.
func components(nodes []int, edges []graph.Edge) [][]int {
	indexOf := make(map[int]int, len(nodes))
	for i, n := range nodes {
		indexOf[n] = i
	}

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, e := range edges {
		if fi, ok := indexOf[e.From]; ok {
			if ti, ok := indexOf[e.To]; ok {
				a, b := find(fi), find(ti)
				if a != b {
					parent[b] = a
				}
			}
		}
	}

	byRoot := make(map[int][]int)
	var roots []int
	for i, n := range nodes {
		r := find(i)
		if _, seen := byRoot[r]; !seen {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], n)
	}
	out := make([][]int, 0, len(roots))
	for _, r := range roots {
		out = append(out, byRoot[r])
	}
	return out
}

func filterEdges(edges []graph.Edge, component []int) []graph.Edge {
	inComp := make(map[int]bool, len(component))
	for _, n := range component {
		inComp[n] = true
	}
	var out []graph.Edge
	for _, e := range edges {
		if inComp[e.From] || inComp[e.To] {
			out = append(out, e)
		}
	}
	return out
}
