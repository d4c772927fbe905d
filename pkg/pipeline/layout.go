package pipeline

import (
	"context"
	"math/rand/v2"

	"github.com/gridwise/layoutkit/pkg/community"
	"github.com/gridwise/layoutkit/pkg/errors"
	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/layout/circular"
	"github.com/gridwise/layoutkit/pkg/layout/force"
	"github.com/gridwise/layoutkit/pkg/layout/ortho"
	"github.com/gridwise/layoutkit/pkg/layout/spectral"
)

// scatter places nodes uniformly at random in a square sized to the node
// count, the starting point for the force and spectral placements.
func scatter(n int, seed uint64) []geom.Vec2 {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	side := scatterSpacing
	for s := 1; s*s < n; s++ {
		side += scatterSpacing
	}
	out := make([]geom.Vec2, n)
	for i := range out {
		out[i] = geom.V(rng.Float64()*side-side/2, rng.Float64()*side-side/2)
	}
	return out
}

// ComputeForce runs the annealed force-directed placement to completion:
// step, cool by a fixed factor, stop once the layout settles or the
// temperature runs out.
func ComputeForce(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	hidden := opts.hiddenTags(snap)

	positions := make([]force.NodePosition, snap.NodeCount)
	for i, p := range scatter(snap.NodeCount, opts.Seed) {
		positions[i] = force.NodePosition{Pos: p}
	}

	temperature := startTemperature
	for i := 0; i < opts.MaxIterations; i++ {
		next, maxMove, err := force.Step(ctx, positions, snap.Sizes, snap.Edges, hidden, opts.Force, temperature)
		if err != nil {
			return nil, err
		}
		positions = next
		temperature *= temperatureDecay
		if maxMove < settleThreshold || temperature < minTemperature {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	result := &graph.Result{Kind: graph.KindForce}
	for _, p := range positions {
		result.Positions = append(result.Positions, graph.Position{X: p.Pos.X, Y: p.Pos.Y})
	}
	return result, nil
}

// ComputeCommunities runs Louvain community detection.
func ComputeCommunities(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	visible := snapVisible(snap, opts)
	res := community.Detect(ctx, snap.NodeCount, visible, opts.Community)
	return &graph.Result{
		Kind:        graph.KindCommunities,
		Communities: res.NodeCommunity,
	}, nil
}

// ComputeRoutes routes all visible edges orthogonally over a finished
// placement. Channel resizing may move nodes; the returned positions are
// the final ones.
func ComputeRoutes(ctx context.Context, snap *graph.Snapshot, placed []graph.Position, opts Options) (*graph.Result, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	if len(placed) != snap.NodeCount {
		return nil, errors.New(errors.ErrCodeInvalidInput, "routing needs %d positions, got %d", snap.NodeCount, len(placed))
	}
	positions := make([]geom.Vec2, len(placed))
	for i, p := range placed {
		positions[i] = geom.V(p.X, p.Y)
	}

	routed, err := ortho.Route(ctx, positions, snap.Sizes, snap.Edges, opts.hiddenTags(snap))
	if err != nil {
		return nil, err
	}

	result := &graph.Result{Kind: graph.KindRoutes}
	for _, p := range routed.Positions {
		result.Positions = append(result.Positions, graph.Position{X: p.X, Y: p.Y})
	}
	for i, edgeIdx := range routed.Edges {
		line := graph.Polyline{Edge: edgeIdx}
		for _, p := range routed.Polylines[i] {
			line.Points = append(line.Points, graph.Position{X: p.X, Y: p.Y})
		}
		result.Routes = append(result.Routes, line)
	}
	return result, nil
}

// ComputeCircular searches for a circular node order with few edge
// crossings and returns the order with its cost.
func ComputeCircular(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	visible := snapVisible(snap, opts)
	nodes := make([]int, snap.NodeCount)
	for i := range nodes {
		nodes[i] = i
	}
	order := circular.Order(nodes, visible, opts.Circular)
	return &graph.Result{
		Kind:  graph.KindCircular,
		Order: order,
		Cost:  circular.CrossingSweepCost(order, visible, snap.NodeCount),
	}, nil
}

// ComputeSpectral places nodes by the Laplacian eigenvectors. Eigen-solve
// failures surface as a typed non-convergence error so the caller can fall
// back to another placement.
func ComputeSpectral(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	nodes := make([]int, snap.NodeCount)
	for i := range nodes {
		nodes[i] = i
	}
	placed, err := spectral.Layout(ctx, nodes, scatter(snap.NodeCount, opts.Seed), snap.Edges, opts.hiddenTags(snap))
	if err != nil {
		return nil, err
	}
	result := &graph.Result{Kind: graph.KindSpectral}
	for _, p := range placed {
		result.Positions = append(result.Positions, graph.Position{X: p.X, Y: p.Y})
	}
	return result, nil
}

// snapVisible filters the snapshot edges by the merged hidden set.
func snapVisible(snap *graph.Snapshot, opts Options) []graph.Edge {
	hidden := opts.hiddenTags(snap)
	if len(hidden) == 0 {
		return snap.Edges
	}
	out := make([]graph.Edge, 0, len(snap.Edges))
	for _, e := range snap.Edges {
		if !hidden.Contains(e.Tag) {
			out = append(out, e)
		}
	}
	return out
}
