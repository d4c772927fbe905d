package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Different users or server instances can share one backend while keeping
// separate cache namespaces.
//
// Example usage:
//
//	// Per-project keys
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:abc123:")
//
//	// Global keys for shared graphs
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SnapshotKey generates a prefixed key for a raw graph snapshot.
func (k *ScopedKeyer) SnapshotKey(namespace, key string) string {
	return k.prefix + k.inner.SnapshotKey(namespace, key)
}

// LayoutKey generates a prefixed key for a node-placement result.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// CommunityKey generates a prefixed key for a community detection result.
func (k *ScopedKeyer) CommunityKey(graphHash string, opts CommunityKeyOpts) string {
	return k.prefix + k.inner.CommunityKey(graphHash, opts)
}

// RouteKey generates a prefixed key for an edge routing result.
func (k *ScopedKeyer) RouteKey(layoutHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(layoutHash, opts)
}
