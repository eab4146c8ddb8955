package cache

import (
	"context"
	"time"
)

// NullCache backs the "none" backend selected by --no-cache or
// cache.backend = "none". Every lookup misses, so the runner packs and
// renders from scratch on each call.
//
// NullCache does not implement [Clearer]; `codecity cache clear` reports
// the cache as disabled instead.
type NullCache struct{}

// NewNullCache returns the disabled cache.
func NewNullCache() Cache { return &NullCache{} }

// Get reports a miss for every key.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set drops data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op.
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
