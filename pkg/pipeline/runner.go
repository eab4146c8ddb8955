package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codecity/pkg/cache"
	cityio "github.com/matzehuels/codecity/pkg/io"
	"github.com/matzehuels/codecity/pkg/layout"
	"github.com/matzehuels/codecity/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete pack → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, in *cityio.Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Stats: Stats{Entities: len(in.Entities)}}

	// Stage 1: Pack
	packStart := time.Now()
	l, hash, hit, err := r.PackWithCacheInfo(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.InputHash = hash
	result.Stats.PackTime = time.Since(packStart)
	result.CacheInfo.PackHit = hit

	opts.Logger.Info("packed city",
		"groups", l.Groups,
		"leaves", l.Leaves,
		"size", fmt.Sprintf("%dx%d", l.Width, l.Depth),
		"height", l.Height,
		"cached", hit,
		"duration", result.Stats.PackTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PackWithCacheInfo packs in with caching. It returns the layout, the
// content hash of the normalized input and whether the cache was hit.
func (r *Runner) PackWithCacheInfo(ctx context.Context, in *cityio.Input, opts Options) (layout.Layout, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return layout.Layout{}, "", false, err
	}

	if in.Separator == "" {
		in.Separator = opts.Separator
	}
	if err := in.Normalize(); err != nil {
		return layout.Layout{}, "", false, err
	}
	inputHash, err := cache.HashJSON(in)
	if err != nil {
		return layout.Layout{}, "", false, err
	}
	cacheKey := r.Keyer.LayoutKey(inputHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return cached, inputHash, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	l, err := Pack(ctx, in, opts)
	if err != nil {
		return layout.Layout{}, "", false, err
	}

	if data, err := layout.Marshal(l); err == nil {
		r.store(ctx, opts, cacheKey, keyTypeLayout, data, cache.LayoutTTL)
	}

	return l, inputHash, false, nil
}

// Pack is a convenience wrapper that calls PackWithCacheInfo and discards
// the hash and cache hit info.
func (r *Runner) Pack(ctx context.Context, in *cityio.Input, opts Options) (layout.Layout, error) {
	l, _, _, err := r.PackWithCacheInfo(ctx, in, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns
// whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	data, err := layout.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(data)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		}
		allCached = false

		data, err := RenderFormat(ctx, l, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.store(ctx, opts, cacheKey, keyTypeArtifact, data, cache.ArtifactTTL)
	}

	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes an entry, logging instead of failing on cache errors.
func (r *Runner) store(ctx context.Context, opts Options, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
