package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
//
// Example usage:
//
//	// Keys for one API key's private renders
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
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

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(settingsHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(settingsHash, opts)
}

// ShareKey generates a prefixed share key.
func (k *ScopedKeyer) ShareKey(token string) string {
	return k.prefix + k.inner.ShareKey(token)
}
