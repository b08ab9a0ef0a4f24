// Package cache stores intermediate scan results between runs.
//
// A pre-commit hook runs over mostly unchanged files on every commit, so the
// regexp detective caches the import specifiers it extracts from each file,
// keyed by the SHA-256 of the file contents. Entries are content-addressed and
// never go stale; the TTL only bounds disk usage.
//
// Two implementations are provided:
//   - [FileCache]: JSON entries under a directory (~/.cache/precommit/)
//   - [NullCache]: never stores anything (--no-cache)
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached scan entry is kept.
const DefaultTTL = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer generates cache keys for the different cached artifacts.
type Keyer interface {
	// ImportsKey is the key for the import specifiers extracted from a file
	// whose contents hash to contentHash, using the named detective.
	ImportsKey(detective, contentHash string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ImportsKey implements Keyer.
func (DefaultKeyer) ImportsKey(detective, contentHash string) string {
	return hashKey("imports", detective, contentHash)
}
