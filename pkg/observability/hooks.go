// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about solver iterations, community detection, routing,
// and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnStepComplete(ctx, nodeCount, maxDisplacement, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the iterative layout solvers.
type LayoutHooks interface {
	// Force solver events
	OnStepComplete(ctx context.Context, nodeCount int, maxDisplacement float64, duration time.Duration)
	OnConverged(ctx context.Context, nodeCount, steps int)

	// One-shot layout events (circular, spectral)
	OnLayoutStart(ctx context.Context, kind string, nodeCount int)
	OnLayoutComplete(ctx context.Context, kind string, duration time.Duration, err error)
}

// =============================================================================
// Algorithm Hooks
// =============================================================================

// AlgoHooks receives events from the structural algorithms.
type AlgoHooks interface {
	// OnCommunityLevel records one completed Louvain coarsening level.
	OnCommunityLevel(ctx context.Context, level, communityCount int, moved int)

	// OnRoutesComplete records a finished routing pass.
	OnRoutesComplete(ctx context.Context, edgeCount, channelCount int, duration time.Duration)

	// OnRouteOrderRejected records an ordering constraint dropped to avoid a cycle.
	OnRouteOrderRejected(ctx context.Context, total int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnStepComplete(context.Context, int, float64, time.Duration)      {}
func (NoopLayoutHooks) OnConverged(context.Context, int, int)                            {}
func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                       {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, time.Duration, error)   {}

// NoopAlgoHooks is a no-op implementation of AlgoHooks.
type NoopAlgoHooks struct{}

func (NoopAlgoHooks) OnCommunityLevel(context.Context, int, int, int)             {}
func (NoopAlgoHooks) OnRoutesComplete(context.Context, int, int, time.Duration)   {}
func (NoopAlgoHooks) OnRouteOrderRejected(context.Context, int)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	algoHooks   AlgoHooks   = NoopAlgoHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetAlgoHooks registers custom algorithm hooks.
// This should be called once at application startup before any algorithm runs.
func SetAlgoHooks(h AlgoHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		algoHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Algo returns the registered algorithm hooks.
func Algo() AlgoHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return algoHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	algoHooks = NoopAlgoHooks{}
	cacheHooks = NoopCacheHooks{}
}
