package plan

import (
	"fmt"
	"math"

	"github.com/matzehuels/codecity/pkg/layout"
)

// DefaultScale is the number of output units per layout unit.
const DefaultScale = 10.0

// Options configures plan rendering.
type Options struct {
	Scale  float64 // output units per layout unit
	Labels bool    // add leaf names as tooltips (SVG only)
}

// Option configures plan rendering.
type Option func(*Options)

// WithScale sets the output units per layout unit.
func WithScale(s float64) Option { return func(o *Options) { o.Scale = s } }

// WithLabels adds leaf names as SVG tooltips.
func WithLabels() Option { return func(o *Options) { o.Labels = true } }

func newOptions(opts ...Option) Options {
	o := Options{Scale: DefaultScale}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return o
}

// =============================================================================
// Scene - shared by all formats
// =============================================================================

type shape struct {
	block       layout.Block
	x, y, w, h  float64
	fill        string
	stroke      string
	strokeWidth float64
}

type scene struct {
	width, height float64
	shapes        []shape
}

var levelColors = []string{
	"#f4f1ea", "#e3ddd0", "#d3e4cd", "#c7d7e8", "#e8d3c7", "#ddd0e6",
}

const (
	groupStroke = "#8a8375"
	leafStroke  = "#3d3a34"
)

// groupColor returns the fill of a group slab at level.
func groupColor(level int) string {
	return levelColors[level%len(levelColors)]
}

// leafColor interpolates from a light to a dark roof by relative height.
func leafColor(height, tallest int) string {
	const (
		lr, lg, lb = 0xf2, 0xc1, 0x4e
		dr, dg, db = 0x9c, 0x2f, 0x1c
	)
	t := 0.0
	if tallest > 0 {
		t = float64(min(max(height, 0), tallest)) / float64(tallest)
	}
	mix := func(a, b int) int { return a + int(math.Round(float64(b-a)*t)) }
	return fmt.Sprintf("#%02x%02x%02x", mix(lr, dr), mix(lg, dg), mix(lb, db))
}

func buildScene(l layout.Layout, o Options) scene {
	blocks := layout.Flatten(l)

	tallest := 0
	for _, b := range blocks {
		if b.Kind == layout.KindLeaf {
			tallest = max(tallest, b.Height)
		}
	}

	s := scene{
		width:  float64(l.Root.Width) * o.Scale,
		height: float64(l.Root.Depth) * o.Scale,
		shapes: make([]shape, 0, len(blocks)),
	}
	for _, b := range blocks {
		sh := shape{
			block:       b,
			x:           float64(b.X) * o.Scale,
			y:           float64(b.Y) * o.Scale,
			w:           float64(b.Width) * o.Scale,
			h:           float64(b.Depth) * o.Scale,
			fill:        groupColor(b.Level),
			stroke:      groupStroke,
			strokeWidth: max(o.Scale/20, 0.5),
		}
		if b.Kind == layout.KindLeaf {
			sh.fill = leafColor(b.Height, tallest)
			sh.stroke = leafStroke
		}
		s.shapes = append(s.shapes, sh)
	}
	return s
}
