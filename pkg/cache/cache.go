// Package cache provides byte caches for rendered snapshots.
//
// Snapshots are a pure function of a settings record and the requested
// output options, so they can be cached under a key derived from the
// settings hash. Three implementations are provided:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer]. [ScopedKeyer] prefixes every key so that
// several tenants can share one backend.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/shapegrid/pkg/observability"
)

// TTLs for cached entries.
const (
	// TTLSnapshot is how long rendered snapshots stay cached.
	TTLSnapshot = 7 * 24 * time.Hour

	// TTLShare is how long decoded share payloads stay cached.
	TTLShare = 30 * 24 * time.Hour
)

// Cache stores opaque byte values.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// keyType returns the prefix of a key up to its first colon, for metrics.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}

func recordGet(ctx context.Context, key string, hit bool) {
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
}
