package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or
// environments can share one backend without seeing each other's entries.
//
// Example usage:
//
//	// Per-workspace keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ws:acme:")
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

// LayoutKey generates a prefixed key for diagram caching.
func (k *ScopedKeyer) LayoutKey(recordHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(recordHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(diagramHash, opts)
}
