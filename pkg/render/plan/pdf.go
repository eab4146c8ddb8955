package plan

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/codecity/pkg/layout"
)

// RenderPDF renders the layout as a single-page PDF. One output unit is
// one millimetre.
func RenderPDF(l layout.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	s := buildScene(l, o)
	if s.width <= 0 || s.height <= 0 {
		return nil, fmt.Errorf("empty scene %.0fx%.0f", s.width, s.height)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, s.width, s.height, nil)

	c := canvas.New(s.width, s.height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	for _, sh := range s.shapes {
		ctx.SetFillColor(canvas.Hex(sh.fill))
		ctx.SetStrokeColor(canvas.Hex(sh.stroke))
		ctx.SetStrokeWidth(sh.strokeWidth)
		ctx.DrawPath(sh.x, sh.y, canvas.Rectangle(sh.w, sh.h))
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
