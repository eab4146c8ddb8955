// Package pipeline provides the pack → render pipeline for codecity.
//
// This package implements the complete pipeline that is shared by the CLI
// and the API server. By centralizing this logic, both entry points apply
// the same defaults, the same cache keys and the same observability hooks.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Pack: Build the entity tree and compute every footprint and position
//  2. Render: Generate output in various formats (JSON, SVG, PNG, PDF, DOT, voxel)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, input, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.Pack(ctx, input, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codecity/pkg/cache"
	"github.com/matzehuels/codecity/pkg/city"
	"github.com/matzehuels/codecity/pkg/errors"
	"github.com/matzehuels/codecity/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the default number of pixels (or points) per layout
	// unit in plan renderings.
	DefaultScale = 10.0

	// MaxScale bounds the scale so that a large city cannot request a
	// gigantic raster.
	MaxScale = 100.0
)

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatDOT   = "dot"
	FormatVoxel = "voxel"
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatJSON, FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatVoxel}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatDOT:   true,
	FormatVoxel: true,
}

// contentTypes maps formats to HTTP content types.
var contentTypes = map[string]string{
	FormatJSON:  "application/json",
	FormatSVG:   "image/svg+xml",
	FormatPNG:   "image/png",
	FormatPDF:   "application/pdf",
	FormatDOT:   "text/vnd.graphviz; charset=utf-8",
	FormatVoxel: "application/json",
}

// extensions maps formats to file extensions.
var extensions = map[string]string{
	FormatJSON:  ".json",
	FormatSVG:   ".svg",
	FormatPNG:   ".png",
	FormatPDF:   ".pdf",
	FormatDOT:   ".dot",
	FormatVoxel: ".voxel.json",
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the file extension of a format, including the dot.
func Extension(format string) string {
	if ext, ok := extensions[format]; ok {
		return ext
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Pack options
	Separator string `json:"separator,omitempty"`
	Root      string `json:"root,omitempty"`     // Custom name for the root group (replaces _root_)
	Parallel  bool   `json:"parallel,omitempty"` // Pack sibling subtrees concurrently
	Limit     int    `json:"limit,omitempty"`    // Concurrent subtrees per group, 0 = unbounded
	Refresh   bool   `json:"refresh,omitempty"`  // Bypass cache reads

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Show sizes in DOT labels

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the packed city.
	Layout layout.Layout

	// InputHash is the content hash of the normalized entity list.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities   int
	PackTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PackHit   bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills every unset option.
func (o *Options) SetDefaults() {
	if o.Separator == "" {
		o.Separator = city.DefaultSeparator
	}
	if o.Root == "" {
		o.Root = city.RootName
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every option.
// It is idempotent.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := errors.ValidateSeparator(o.Separator); err != nil {
		return err
	}
	if o.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "limit must not be negative, got %d", o.Limit)
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	o.Formats = dedupe(o.Formats)
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for packing.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Separator: o.Separator,
		Root:      o.Root,
	}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
// Options that do not affect a format are left out so that they share
// cache entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Scale = o.Scale
		k.Labels = o.Labels
	case FormatDOT:
		k.Detailed = o.Detailed
	}
	return k
}

// dedupe drops repeated formats, keeping first occurrences.
func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// String summarizes the options for logs.
func (o Options) String() string {
	return fmt.Sprintf("sep=%q root=%q parallel=%t formats=%v scale=%g",
		o.Separator, o.Root, o.Parallel, o.Formats, o.Scale)
}
