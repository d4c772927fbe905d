// Package cache provides content-addressed caching of layout results.
//
// Layouts are deterministic for a given snapshot and tuning, so results are
// keyed by a SHA-256 hash of the input graph plus the parameters that shaped
// the run. Three backends implement the Cache interface:
//   - file: directory-based cache for CLI usage
//   - redis: shared cache for multi-instance server deployments
//   - null: no-op cache for tests or when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the parameters that change a node-placement result.
type LayoutKeyOpts struct {
	Algorithm  string  `json:"algorithm"` // force, circular, spectral
	Iterations int     `json:"iterations,omitempty"`
	Theta      float64 `json:"theta,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`
	Hidden     []int   `json:"hidden,omitempty"`
	// Tuning is a digest of the remaining solver parameters, so tuning
	// changes invalidate cached layouts.
	Tuning string `json:"tuning,omitempty"`
}

// CommunityKeyOpts are the parameters that change a community detection
// result.
type CommunityKeyOpts struct {
	Resolution float64 `json:"resolution,omitempty"`
	Randomize  bool    `json:"randomize,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`
	Hidden     []int   `json:"hidden,omitempty"`
}

// RouteKeyOpts are the parameters that change an edge routing result. The
// layout hash in the key already covers the node positions.
type RouteKeyOpts struct {
	Hidden []int `json:"hidden,omitempty"`
}

// Cache durations per result class. Layout results are deterministic for a
// given key, so the TTLs only bound cache growth.
const (
	// TTLSnapshot is how long raw graph snapshots are kept.
	TTLSnapshot = 24 * time.Hour

	// TTLResult is how long computed layout results are kept.
	TTLResult = 7 * 24 * time.Hour
)

// Keyer generates cache keys for the layout pipeline stages.
type Keyer interface {
	// SnapshotKey generates a key for a raw graph snapshot.
	SnapshotKey(namespace, key string) string

	// LayoutKey generates a key for a node-placement result.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// CommunityKey generates a key for a community detection result.
	CommunityKey(graphHash string, opts CommunityKeyOpts) string

	// RouteKey generates a key for an edge routing result.
	RouteKey(layoutHash string, opts RouteKeyOpts) string
}

// DefaultKeyer generates unscoped cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SnapshotKey generates a key for a raw graph snapshot.
func (k *DefaultKeyer) SnapshotKey(namespace, key string) string {
	return "snapshot:" + namespace + ":" + key
}

// LayoutKey generates a key for a node-placement result.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// CommunityKey generates a key for a community detection result.
func (k *DefaultKeyer) CommunityKey(graphHash string, opts CommunityKeyOpts) string {
	return hashKey("community", graphHash, opts)
}

// RouteKey generates a key for an edge routing result.
func (k *DefaultKeyer) RouteKey(layoutHash string, opts RouteKeyOpts) string {
	return hashKey("route", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
