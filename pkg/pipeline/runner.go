package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gridwise/layoutkit/pkg/cache"
	"github.com/gridwise/layoutkit/pkg/graph"
)

// Runner encapsulates engine operations with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// SnapshotHash is the content hash used in every cache key for a snapshot.
func SnapshotHash(snap *graph.Snapshot) (string, error) {
	data, err := graph.MarshalSnapshot(snap)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// ForceWithCacheInfo computes a force-directed placement with caching and
// returns cache hit info.
func (r *Runner) ForceWithCacheInfo(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, bool, error) {
	opts.SetDefaults()
	key, err := r.layoutKey(snap, OpForce, opts)
	if err != nil {
		return nil, false, err
	}
	if cached := r.lookup(ctx, key); cached != nil {
		return cached, true, nil
	}

	start := time.Now()
	result, err := ComputeForce(ctx, snap, opts)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("force layout computed",
		"nodes", snap.NodeCount,
		"edges", len(snap.Edges),
		"duration", time.Since(start).Round(time.Millisecond))

	r.store(ctx, key, result)
	return result, false, nil
}

// Force is a convenience wrapper that discards the cache hit info.
func (r *Runner) Force(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, error) {
	result, _, err := r.ForceWithCacheInfo(ctx, snap, opts)
	return result, err
}

// CommunitiesWithCacheInfo detects communities with caching and returns
// cache hit info.
func (r *Runner) CommunitiesWithCacheInfo(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, bool, error) {
	opts.SetDefaults()
	hash, err := SnapshotHash(snap)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.CommunityKey(hash, cache.CommunityKeyOpts{
		Resolution: opts.Community.Resolution,
		Randomize:  opts.Community.Randomize,
		Seed:       opts.Community.Seed,
		Hidden:     opts.Hidden,
	})
	if cached := r.lookup(ctx, key); cached != nil {
		return cached, true, nil
	}

	start := time.Now()
	result, err := ComputeCommunities(ctx, snap, opts)
	if err != nil {
		return nil, false, err
	}
	clusters := 0
	for _, c := range result.Communities {
		if c+1 > clusters {
			clusters = c + 1
		}
	}
	r.Logger.Info("communities detected",
		"nodes", snap.NodeCount,
		"clusters", clusters,
		"duration", time.Since(start).Round(time.Millisecond))

	r.store(ctx, key, result)
	return result, false, nil
}

// Communities is a convenience wrapper that discards the cache hit info.
func (r *Runner) Communities(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, error) {
	result, _, err := r.CommunitiesWithCacheInfo(ctx, snap, opts)
	return result, err
}

// RoutesWithCacheInfo routes edges over a placement with caching and
// returns cache hit info. The cache key covers the snapshot and the
// placement, so moving a node invalidates the routes.
func (r *Runner) RoutesWithCacheInfo(ctx context.Context, snap *graph.Snapshot, placed []graph.Position, opts Options) (*graph.Result, bool, error) {
	opts.SetDefaults()
	hash, err := SnapshotHash(snap)
	if err != nil {
		return nil, false, err
	}
	placedData, err := json.Marshal(placed)
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(append([]byte(hash), placedData...))
	key := r.Keyer.RouteKey(layoutHash, cache.RouteKeyOpts{Hidden: opts.Hidden})
	if cached := r.lookup(ctx, key); cached != nil {
		return cached, true, nil
	}

	start := time.Now()
	result, err := ComputeRoutes(ctx, snap, placed, opts)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("edges routed",
		"edges", len(result.Routes),
		"duration", time.Since(start).Round(time.Millisecond))

	r.store(ctx, key, result)
	return result, false, nil
}

// Routes is a convenience wrapper that discards the cache hit info.
func (r *Runner) Routes(ctx context.Context, snap *graph.Snapshot, placed []graph.Position, opts Options) (*graph.Result, error) {
	result, _, err := r.RoutesWithCacheInfo(ctx, snap, placed, opts)
	return result, err
}

// CircularWithCacheInfo searches for a circular order with caching and
// returns cache hit info.
func (r *Runner) CircularWithCacheInfo(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, bool, error) {
	opts.SetDefaults()
	key, err := r.layoutKey(snap, OpCircular, opts)
	if err != nil {
		return nil, false, err
	}
	if cached := r.lookup(ctx, key); cached != nil {
		return cached, true, nil
	}

	start := time.Now()
	result, err := ComputeCircular(ctx, snap, opts)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("circular order found",
		"nodes", snap.NodeCount,
		"cost", result.Cost,
		"duration", time.Since(start).Round(time.Millisecond))

	r.store(ctx, key, result)
	return result, false, nil
}

// Circular is a convenience wrapper that discards the cache hit info.
func (r *Runner) Circular(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, error) {
	result, _, err := r.CircularWithCacheInfo(ctx, snap, opts)
	return result, err
}

// SpectralWithCacheInfo computes a spectral placement with caching and
// returns cache hit info.
func (r *Runner) SpectralWithCacheInfo(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, bool, error) {
	opts.SetDefaults()
	key, err := r.layoutKey(snap, OpSpectral, opts)
	if err != nil {
		return nil, false, err
	}
	if cached := r.lookup(ctx, key); cached != nil {
		return cached, true, nil
	}

	start := time.Now()
	result, err := ComputeSpectral(ctx, snap, opts)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("spectral layout computed",
		"nodes", snap.NodeCount,
		"duration", time.Since(start).Round(time.Millisecond))

	r.store(ctx, key, result)
	return result, false, nil
}

// Spectral is a convenience wrapper that discards the cache hit info.
func (r *Runner) Spectral(ctx context.Context, snap *graph.Snapshot, opts Options) (*graph.Result, error) {
	result, _, err := r.SpectralWithCacheInfo(ctx, snap, opts)
	return result, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// layoutKey builds the cache key for a placement operation.
func (r *Runner) layoutKey(snap *graph.Snapshot, algorithm string, opts Options) (string, error) {
	hash, err := SnapshotHash(snap)
	if err != nil {
		return "", err
	}
	tuning, err := json.Marshal(struct {
		Force    any `json:"force,omitempty"`
		Circular any `json:"circular,omitempty"`
	}{Force: opts.Force, Circular: opts.Circular})
	if err != nil {
		return "", err
	}
	return r.Keyer.LayoutKey(hash, cache.LayoutKeyOpts{
		Algorithm:  algorithm,
		Iterations: opts.MaxIterations,
		Theta:      opts.Force.Theta,
		Seed:       opts.Seed,
		Hidden:     opts.Hidden,
		Tuning:     cache.Hash(tuning),
	}), nil
}

// lookup returns the cached result for key, or nil on any miss or decode
// failure.
func (r *Runner) lookup(ctx context.Context, key string) *graph.Result {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil
	}
	result, err := graph.UnmarshalResult(data)
	if err != nil {
		return nil
	}
	return result
}

// store caches a result, ignoring cache write failures.
func (r *Runner) store(ctx context.Context, key string, result *graph.Result) {
	if data, err := graph.MarshalResult(result); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLResult)
	}
}
