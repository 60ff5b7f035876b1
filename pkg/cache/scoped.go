package cache

// ScopedKeyer wraps a Keyer with a prefix, giving callers separate cache
// namespaces. The server uses this to isolate tenants sharing one Redis.
//
// Example usage:
//
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
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

// DocumentKey generates a prefixed key for document caching.
func (k *ScopedKeyer) DocumentKey(inputHash string) string {
	return k.prefix + k.inner.DocumentKey(inputHash)
}

// PreviewKey generates a prefixed key for preview artifact caching.
func (k *ScopedKeyer) PreviewKey(inputHash, format string) string {
	return k.prefix + k.inner.PreviewKey(inputHash, format)
}
