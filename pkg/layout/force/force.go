// Package force implements one step of a Barnes-Hut force-directed layout.
//
// The solver is stateless between steps: the caller owns positions and
// velocities, calls [Step] once per frame with a cooling temperature, and
// decides when the returned maximum displacement is small enough to stop.
//
// # Forces
//
// Repulsion acts between all node pairs through the quadtree approximation
// and fades smoothly to zero beyond the gravity effect radius, so distant
// clusters stop exchanging momentum instead of oscillating. Attraction acts
// along visible non-self edges as a quadratic spring over the gap between
// node borders.
package force

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/layout/quadtree"
	"github.com/gridwise/layoutkit/pkg/observability"
)

// NodePosition is one node's kinematic state. Locked nodes take part in
// force computation but are never moved by integration.
type NodePosition struct {
	Pos    geom.Vec2
	Vel    geom.Vec2
	Locked bool
}

// Config tunes the solver. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// RepulsionConstant scales pairwise repulsion.
	RepulsionConstant float64 `toml:"repulsion_constant" json:"repulsion_constant,omitempty"`
	// AttractionFactor scales edge springs; larger means stronger pull.
	AttractionFactor float64 `toml:"attraction_factor" json:"attraction_factor,omitempty"`
	// GravityEffectRadius is the distance beyond which repulsion fades out.
	GravityEffectRadius float64 `toml:"gravity_effect_radius" json:"gravity_effect_radius,omitempty"`
	// Theta is the Barnes-Hut opening threshold.
	Theta float64 `toml:"theta" json:"theta,omitempty"`
	// Workers caps solver parallelism; 0 means GOMAXPROCS.
	Workers int `toml:"workers" json:"workers,omitempty"`
}

// DefaultConfig returns the tuning used by the interactive defaults.
func DefaultConfig() Config {
	return Config{
		RepulsionConstant:   1.5,
		AttractionFactor:    0.0015,
		GravityEffectRadius: 250.0,
		Theta:               0.5,
	}
}

// leafCap is the quadtree leaf capacity used for every step.
const leafCap = 5

// Step advances the simulation by one tick and returns the new positions
// together with the maximum displacement any node made. The inputs are not
// modified. Empty input returns (nil, 0).
//
// Velocity integration is vel = vel*0.4 + force*0.01, clamped to
// temperature, so a decaying temperature schedule anneals the layout.
func Step(ctx context.Context, positions []NodePosition, sizes []graph.Size, edges []graph.Edge, hidden graph.TagSet, cfg Config, temperature float64) ([]NodePosition, float64, error) {
	if len(positions) == 0 {
		return nil, 0, nil
	}
	start := time.Now()

	// k is the ideal pairwise distance for this node count.
	k := math.Sqrt(500.0 * 500.0 / float64(len(positions)))
	repulsionFactor := (cfg.RepulsionConstant * k) * (cfg.RepulsionConstant * k)
	attraction := 111.0 / cfg.AttractionFactor

	points := make([]quadtree.WeightedPoint, len(positions))
	for i, p := range positions {
		points[i] = quadtree.WeightedPoint{Pos: p.Pos, Mass: 1.0}
	}
	tree := quadtree.New(cfg.Theta)
	if err := tree.Build(points, leafCap); err != nil {
		return nil, 0, err
	}

	gravityRadius := cfg.GravityEffectRadius
	maxSmoothRadius := gravityRadius * 1.2

	forceFn := func(target geom.Vec2, source quadtree.WeightedPoint) geom.Vec2 {
		dir := target.Sub(source.Pos)
		if dir.IsZero() {
			return geom.Vec2{} // avoid division by zero
		}
		dist := dir.Len()
		scale := 1.0
		if dist > gravityRadius {
			if dist > maxSmoothRadius {
				return geom.Vec2{}
			}
			// Fade the force out over the last 20% so distant nodes
			// decouple without a hard cutoff.
			scale = smoothInvert((dist - gravityRadius) / (gravityRadius * 0.2))
		}
		mag := source.Mass * repulsionFactor / dist
		return dir.Scale(scale * mag / dist)
	}

	forces := make([]geom.Vec2, len(positions))
	parallelFor(ctx, len(positions), cfg.Workers, func(i int) {
		forces[i] = tree.Accumulate(positions[i].Pos, forceFn)
	})

	halfWidth := func(i int) float64 {
		if len(sizes) == 0 {
			return 0
		}
		return sizes[i].W / 2
	}
	for _, e := range edges {
		if e.IsSelf() || hidden.Contains(e.Tag) {
			continue
		}
		dir := positions[e.From].Pos.Sub(positions[e.To].Pos)
		if dir.IsZero() {
			continue
		}
		dist := dir.Len() - halfWidth(e.From) - halfWidth(e.To) - 4.0
		f := dist * dist / attraction
		fv := dir.Scale(f / dist)
		forces[e.From] = forces[e.From].Sub(fv)
		forces[e.To] = forces[e.To].Add(fv)
	}

	var maxMove atomicFloat
	out := make([]NodePosition, len(positions))
	parallelFor(ctx, len(positions), cfg.Workers, func(i int) {
		p := positions[i]
		if p.Locked {
			out[i] = p
			return
		}
		v := p.Vel.Scale(0.4).Add(forces[i].Scale(0.01))
		l := v.Len()
		if l > temperature {
			v = v.Scale(temperature / l)
			maxMove.storeMax(temperature)
		} else {
			maxMove.storeMax(l)
		}
		out[i] = NodePosition{Pos: p.Pos.Add(v), Vel: v}
	})

	moved := maxMove.load()
	observability.Layout().OnStepComplete(ctx, len(positions), moved, time.Since(start))
	return out, moved, nil
}

// smoothInvert is 1 minus the quintic smootherstep, clamped to [0, 1].
func smoothInvert(x float64) float64 {
	if x <= 0 {
		return 1
	}
	if x >= 1 {
		return 0
	}
	return 1 - (6*x*x*x*x*x - 15*x*x*x*x + 10*x*x*x)
}

// parallelFor runs fn over [0, n) split into contiguous chunks, one per
// worker. It blocks until all chunks finish. Work is not cancelable
// mid-chunk; ctx only gates chunk starts.
func parallelFor(ctx context.Context, n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

// atomicFloat is a float64 max accumulator shared across workers.
type atomicFloat struct {
	bits atomic.Uint64
}

func (a *atomicFloat) storeMax(v float64) {
	for {
		old := a.bits.Load()
		if v <= math.Float64frombits(old) {
			return
		}
		if a.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}

func (a *atomicFloat) load() float64 {
	return math.Float64frombits(a.bits.Load())
}
