// Package pipeline runs the layout engine operations with caching.
//
// This package wraps the algorithm packages (force, community, ortho,
// circular, spectral) behind one Runner that CLI and API share. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Operations
//
// Each operation takes a graph snapshot and tuning options and produces a
// graph.Result:
//
//   - Force: Barnes-Hut force-directed node placement
//   - Communities: Louvain community detection
//   - Routes: orthogonal edge routing over a finished placement
//   - Circular: genetic circular ordering
//   - Spectral: Laplacian eigenvector placement
//
// Results are cached by a SHA-256 hash of the snapshot plus the tuning
// parameters, so re-running with the same inputs is a cache hit.
//
// # Usage
//
// Create a Runner and run an operation:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	result, err := runner.Force(ctx, snap, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	positions := result.Positions
package pipeline

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gridwise/layoutkit/pkg/community"
	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/layout/circular"
	"github.com/gridwise/layoutkit/pkg/layout/force"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultMaxIterations caps the force annealing loop.
	DefaultMaxIterations = 1000

	// startTemperature is the initial velocity clamp of the annealing
	// schedule.
	startTemperature = 100.0

	// temperatureDecay is applied to the temperature after every step.
	temperatureDecay = 0.98

	// minTemperature stops the annealing loop once the clamp is this small.
	minTemperature = 0.5

	// settleThreshold stops the loop once no node moves further than this
	// in one step.
	settleThreshold = 0.8

	// scatterSpacing sizes the random initial placement square per node.
	scatterSpacing = 100.0
)

// Operation names, used in cache keys and as CLI command names.
const (
	OpForce       = "force"
	OpCommunities = "communities"
	OpRoutes      = "routes"
	OpCircular    = "circular"
	OpSpectral    = "spectral"
)

// =============================================================================
// Options - Engine Tuning
// =============================================================================

// Options bundles the tuning for all operations. The zero value is not
// usable; start from DefaultOptions or call SetDefaults. The struct maps
// onto the TOML tuning file format, see LoadOptions.
type Options struct {
	// Hidden lists edge tags excluded from every computation. It is merged
	// with the snapshot's own hidden set.
	Hidden []int `toml:"hidden" json:"hidden,omitempty"`

	// Seed drives random initial placement and, unless overridden below,
	// the seeded sub-algorithms.
	Seed uint64 `toml:"seed" json:"seed,omitempty"`

	// MaxIterations caps the force annealing loop.
	MaxIterations int `toml:"max_iterations" json:"max_iterations,omitempty"`

	Force     force.Config      `toml:"force" json:"force,omitempty"`
	Community community.Options `toml:"community" json:"community,omitempty"`
	Circular  circular.Options  `toml:"circular" json:"circular,omitempty"`

	// Logger receives progress output. Not part of the tuning file or the
	// API request body.
	Logger *log.Logger `toml:"-" json:"-"`
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	opts := Options{}
	opts.SetDefaults()
	return opts
}

// SetDefaults fills unset fields with the standard tuning. Sub-algorithm
// seeds default to the top-level seed.
func (o *Options) SetDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Force == (force.Config{}) {
		o.Force = force.DefaultConfig()
	}
	if o.Community == (community.Options{}) {
		o.Community = community.DefaultOptions()
	}
	if o.Circular == (circular.Options{}) {
		o.Circular = circular.DefaultOptions()
	}
	if o.Community.Seed == 0 {
		o.Community.Seed = o.Seed
	}
	if o.Circular.Seed == 0 {
		o.Circular.Seed = o.Seed
	}
}

// hiddenTags merges the option and snapshot hidden sets.
func (o *Options) hiddenTags(snap *graph.Snapshot) graph.TagSet {
	if len(o.Hidden) == 0 {
		return snap.Hidden
	}
	tags := graph.NewTagSet(o.Hidden...)
	for _, t := range snap.Hidden {
		tags = tags.Add(t)
	}
	return tags
}

// validateSnapshot rejects snapshots the engine cannot process.
func validateSnapshot(snap *graph.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	return snap.Validate()
}
