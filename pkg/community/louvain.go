// Package community implements Louvain community detection by incremental
// modularity maximization.
//
// The driver alternates two phases until neither changes anything: a local
// phase that greedily moves single nodes into the neighboring community with
// the best strictly-positive modularity gain, and a coarsening phase that
// collapses every community into one node and repeats on the smaller graph.
// Gains are computed incrementally from per-node neighbor-community weight
// caches, so a move costs O(degree) instead of a whole-graph modularity
// evaluation.
package community

import (
	"context"
	"math/rand/v2"

	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/observability"
)

// Options tunes a detection run.
type Options struct {
	// Resolution scales the gain formula; above 1 favors more, smaller
	// communities, below 1 fewer, larger ones.
	Resolution float64 `toml:"resolution" json:"resolution,omitempty"`
	// Randomize picks a random start node for each local sweep.
	Randomize bool `toml:"randomize" json:"randomize,omitempty"`
	// Seed drives the start-node choice when Randomize is set.
	Seed uint64 `toml:"seed" json:"seed,omitempty"`
}

// DefaultOptions returns the standard resolution-1 randomized run.
func DefaultOptions() Options {
	return Options{Resolution: 1.0, Randomize: true}
}

// Result is a completed partition of the input nodes.
type Result struct {
	// ClusterCount is the number of communities found.
	ClusterCount int
	// NodeCommunity maps each original node index to its community index
	// in [0, ClusterCount).
	NodeCommunity []int
}

// Detect partitions the nodes [0, nodesLen) into communities. Edges are
// treated as undirected with unit weight. The input is not modified.
func Detect(ctx context.Context, nodesLen int, edges []graph.Edge, opts Options) Result {
	if nodesLen == 0 {
		return Result{NodeCommunity: []int{}}
	}
	m := construct(nodesLen, edges)
	m.resolution = opts.Resolution
	m.randomize = opts.Randomize
	m.rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	m.initCaches()
	return m.run(ctx)
}

// =============================================================================
// Model
// =============================================================================

// wedge is one directed half of an undirected weighted edge.
type wedge struct {
	to     int
	weight float64
}

// cnode is a (possibly coarsened) node of the working graph.
type cnode struct {
	community int
	degree    float64
	selfLoop  float64
	// communities caches, per neighboring community, the summed weight of
	// edges into it. Together with selfLoop it always sums to degree.
	communities map[int]float64
}

// comm is one community of the current level.
type comm struct {
	nextID      int
	nodes       []int
	totalDegree float64
}

// model is the mutable state of one detection run across coarsening levels.
type model struct {
	m          float64 // total directed edge weight of the working graph
	resolution float64
	randomize  bool
	rng        *rand.Rand

	// originCommunity maps original node indices through all coarsening
	// levels to a community of the current level.
	originCommunity []int
	nodes           []cnode
	communities     []comm
	edges           [][]wedge
}

func construct(nodesLen int, edges []graph.Edge) *model {
	m := &model{
		m:               float64(len(edges)) * 2.0,
		resolution:      1.0,
		originCommunity: make([]int, nodesLen),
		nodes:           make([]cnode, nodesLen),
		communities:     make([]comm, nodesLen),
		edges:           make([][]wedge, nodesLen),
	}
	for i := 0; i < nodesLen; i++ {
		m.originCommunity[i] = i
		m.nodes[i] = cnode{community: i}
		m.communities[i] = comm{nodes: []int{i}}
	}
	for _, e := range edges {
		m.edges[e.From] = append(m.edges[e.From], wedge{to: e.To, weight: 1.0})
		m.edges[e.To] = append(m.edges[e.To], wedge{to: e.From, weight: 1.0})
	}
	return m
}

// initCaches recomputes every node's degree and neighbor-community weights
// and every community's total degree from scratch. Called after construction
// and after each coarsening.
func (m *model) initCaches() {
	nodeCommunity := make([]int, len(m.nodes))
	for i := range m.nodes {
		nodeCommunity[i] = m.nodes[i].community
	}
	for i := range m.nodes {
		n := &m.nodes[i]
		n.communities = make(map[int]float64)
		sum := n.selfLoop
		for _, w := range m.edges[i] {
			sum += w.weight
			n.communities[nodeCommunity[w.to]] += w.weight
		}
		n.degree = sum
	}
	for i := range m.communities {
		total := 0.0
		for _, n := range m.communities[i].nodes {
			total += m.nodes[n].degree
		}
		m.communities[i].totalDegree = total
	}
}

// =============================================================================
// Local Phase
// =============================================================================

// findBestCommunity returns the neighboring community with the highest
// strictly-positive modularity gain, or -1 when no move improves anything.
func (m *model) findBestCommunity(nodeID int) int {
	best := 0.0
	bestCommunity := -1
	for communityID, sharedDegree := range m.nodes[nodeID].communities {
		if sharedDegree > 0 {
			if q := m.q(nodeID, communityID, sharedDegree); q > best {
				best = q
				bestCommunity = communityID
			}
		}
	}
	return bestCommunity
}

// q returns the modularity change of moving nodeID into communityID.
//
// The formula is
//
//	delta_q = (resolution*d_ij - (d_i*d_j)/(2*m)) / m
//
// with d_ij the doubled edge weight between node and community, d_i the
// node's degree and d_j the community's total degree. When the candidate is
// the node's current community the node's own degree is subtracted from d_j,
// simulating its removal; a singleton then yields exactly zero.
func (m *model) q(nodeID, communityID int, sharedDegree float64) float64 {
	node := &m.nodes[nodeID]
	c := &m.communities[communityID]
	dI := node.degree
	dJ := c.totalDegree
	if node.community == communityID {
		if len(c.nodes) == 1 {
			return 0
		}
		dJ -= dI
	}
	dIJ := sharedDegree * 2.0
	return (m.resolution*dIJ - (dI*dJ)/(m.m*0.5)) / m.m
}

// moveNodeTo reassigns nodeID and incrementally updates every neighbor's
// community-weight cache in O(degree).
func (m *model) moveNodeTo(nodeID, communityID int) {
	oldCommunity := m.nodes[nodeID].community
	degree := m.nodes[nodeID].degree
	m.communities[oldCommunity].removeNode(nodeID, degree)
	m.communities[communityID].addNode(nodeID, degree)

	for _, w := range m.edges[nodeID] {
		neighbor := &m.nodes[w.to]
		if old, ok := neighbor.communities[oldCommunity]; ok {
			if old-w.weight == 0 {
				delete(neighbor.communities, oldCommunity)
			} else {
				neighbor.communities[oldCommunity] = old - w.weight
			}
		}
		neighbor.communities[communityID] += w.weight
	}

	m.nodes[nodeID].community = communityID
}

func (c *comm) addNode(nodeID int, degree float64) {
	c.nodes = append(c.nodes, nodeID)
	c.totalDegree += degree
}

func (c *comm) removeNode(nodeID int, degree float64) {
	for i, n := range c.nodes {
		if n == nodeID {
			c.nodes[i] = c.nodes[len(c.nodes)-1]
			c.nodes = c.nodes[:len(c.nodes)-1]
			c.totalDegree -= degree
			return
		}
	}
	panic("community: node not found in its community")
}

// =============================================================================
// Driver
// =============================================================================

func (m *model) run(ctx context.Context) Result {
	level := 0
	someChange := true
	for someChange {
		someChange = false
		localChange := true
		moved := 0
		for localChange {
			localChange = false
			nodeIndex := 0
			if m.randomize {
				nodeIndex = m.rng.IntN(len(m.communities))
			}
			for step := 0; step < len(m.communities); step++ {
				best := m.findBestCommunity(nodeIndex)
				if best >= 0 && best != m.nodes[nodeIndex].community {
					m.moveNodeTo(nodeIndex, best)
					localChange = true
					moved++
				}
				nodeIndex = (nodeIndex + 1) % len(m.communities)
			}
			someChange = someChange || localChange
		}
		if someChange {
			m.mergeNodes()
			observability.Algo().OnCommunityLevel(ctx, level, len(m.communities), moved)
			level++
		}
	}
	return Result{
		ClusterCount:  len(m.communities),
		NodeCommunity: m.currentPartition(),
	}
}

func (m *model) currentPartition() []int {
	out := make([]int, len(m.originCommunity))
	for i, n := range m.originCommunity {
		out[i] = m.nodes[n].community
	}
	return out
}

// =============================================================================
// Coarsening
// =============================================================================

// mergeNodes collapses every non-empty community into a single node of the
// next level. Intra-community weight becomes the new node's self-loop,
// inter-community weights are summed into level edges, and the origin
// indirection is advanced so results still address original nodes.
func (m *model) mergeNodes() {
	newCount := 0
	for i := range m.communities {
		if len(m.communities[i].nodes) > 0 {
			m.communities[i].nextID = newCount
			newCount++
		}
	}

	newCommunities := make([]comm, 0, newCount)
	newEdges := make([][]wedge, newCount)
	newNodes := make([]cnode, 0, newCount)
	newM := 0.0
	for ci := range m.communities {
		c := &m.communities[ci]
		if len(c.nodes) == 0 {
			continue
		}
		id := c.nextID
		newCommunities = append(newCommunities, comm{nodes: []int{id}})
		node := cnode{community: id}

		edgesFor := make(map[int]float64)
		selfLoop := 0.0
		for _, nodeID := range c.nodes {
			for _, w := range m.edges[nodeID] {
				neighborCommunity := m.nodes[w.to].community
				edgesFor[m.communities[neighborCommunity].nextID] += w.weight
			}
			selfLoop += m.nodes[nodeID].selfLoop
		}
		for neighbor, weight := range edgesFor {
			newM += weight
			if neighbor == id {
				selfLoop += weight
			} else {
				newEdges[id] = append(newEdges[id], wedge{to: neighbor, weight: weight})
			}
		}
		node.selfLoop = selfLoop
		newNodes = append(newNodes, node)
	}

	for i := range m.originCommunity {
		oldID := m.nodes[m.originCommunity[i]].community
		m.originCommunity[i] = m.communities[oldID].nextID
	}

	m.communities = newCommunities
	m.nodes = newNodes
	m.edges = newEdges
	m.m = newM
	m.initCaches()
}
