package cache

// ScopedKeyer wraps a Keyer with a prefix so that different versions of the
// extraction logic never read each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v2:")
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

// ImportsKey generates a prefixed key for extracted imports.
func (k *ScopedKeyer) ImportsKey(detective, contentHash string) string {
	return k.prefix + k.inner.ImportsKey(detective, contentHash)
}
