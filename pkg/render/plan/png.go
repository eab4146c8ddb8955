package plan

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/codecity/pkg/layout"
)

// maxPNGSide bounds the raster size so that a huge city cannot exhaust
// memory. Larger scenes are rejected; render them as SVG or PDF instead.
const maxPNGSide = 16384

// RenderPNG rasterizes the layout.
func RenderPNG(l layout.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	s := buildScene(l, o)

	w, h := int(math.Ceil(s.width)), int(math.Ceil(s.height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty scene %dx%d", w, h)
	}
	if w > maxPNGSide || h > maxPNGSide {
		return nil, fmt.Errorf("scene %dx%d exceeds %d pixels per side, lower the scale", w, h, maxPNGSide)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	for _, sh := range s.shapes {
		dc.DrawRectangle(sh.x, sh.y, sh.w, sh.h)
		dc.SetHexColor(sh.fill)
		dc.FillPreserve()
		dc.SetHexColor(sh.stroke)
		dc.SetLineWidth(sh.strokeWidth)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
