// Package cache provides byte caches for packed layouts and rendered
// artifacts.
//
// # Backends
//
//   - [NullCache]: never stores anything, used when caching is disabled
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the API server
//
// # Keys
//
// Keys are built by a [Keyer] from SHA-256 content hashes, so identical
// input always maps to the same entry regardless of where it came from:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(entityJSON), cache.LayoutKeyOpts{Separator: "/"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil). A ttl of zero means the entry
// does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
