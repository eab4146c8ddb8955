package plan

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/codecity/pkg/layout"
)

// RenderSVG renders the layout as an SVG document.
func RenderSVG(l layout.Layout, opts ...Option) []byte {
	o := newOptions(opts...)
	s := buildScene(l, o)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	buf.WriteString("  <style>.leaf:hover { stroke-width: 2; }</style>\n")

	for _, sh := range s.shapes {
		class := "group"
		if sh.block.Kind == layout.KindLeaf {
			class = "leaf"
		}
		fmt.Fprintf(&buf, `  <rect class="%s" id="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.2f"`,
			class, html.EscapeString(sh.block.Path), sh.x, sh.y, sh.w, sh.h, sh.fill, sh.stroke, sh.strokeWidth)
		if o.Labels && class == "leaf" {
			fmt.Fprintf(&buf, "><title>%s (height %d)</title></rect>\n", html.EscapeString(sh.block.Path), sh.block.Height)
		} else {
			buf.WriteString("/>\n")
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
