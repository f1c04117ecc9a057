package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments (or
// tenants) can share one redis instance without key collisions.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner keyer selects the default layout.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SnapshotKey returns the prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(session string) string {
	return k.prefix + k.inner.SnapshotKey(session)
}

// NeighborsKey returns the prefixed neighbor fetch key.
func (k *ScopedKeyer) NeighborsKey(source, vertexID string, limit int) string {
	return k.prefix + k.inner.NeighborsKey(source, vertexID, limit)
}
