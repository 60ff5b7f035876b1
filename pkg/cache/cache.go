// Package cache provides content-addressed caching for rendered documents.
//
// Diagram output is a pure function of the input description, so cache keys
// are content hashes: the same description always maps to the same document.
// Backends share one interface; the CLI uses the file cache, the HTTP server
// can use Redis, and the null cache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Documents are deterministic, so long TTLs are safe;
// expiry only bounds disk/memory growth.
const (
	TTLDocument = 7 * 24 * time.Hour
	TTLPreview  = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the engine's artifact kinds.
type Keyer interface {
	// DocumentKey keys a serialized draw.io document by the content hash
	// of its input description.
	DocumentKey(inputHash string) string

	// PreviewKey keys a rendered preview by input hash and format.
	PreviewKey(inputHash, format string) string
}

// DefaultKeyer produces hash-based keys with stable prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for document caching.
func (k *DefaultKeyer) DocumentKey(inputHash string) string {
	return hashKey("doc", inputHash)
}

// PreviewKey generates a key for preview artifact caching.
func (k *DefaultKeyer) PreviewKey(inputHash, format string) string {
	return hashKey("preview", inputHash, format)
}
