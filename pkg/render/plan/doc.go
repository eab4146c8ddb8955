// Package plan renders a packed city as a top-down plan view.
//
// Every group is drawn as a rectangle tinted by its tree level, and every
// leaf as a filled rectangle shaded by its height: the taller the building,
// the darker the roof. One layout unit maps to [Options.Scale] output units.
//
// Three output formats share the same scene:
//
//	svg := plan.RenderSVG(l)
//	png, err := plan.RenderPNG(l, plan.WithScale(8))
//	pdf, err := plan.RenderPDF(l)
//
// SVG is written by hand, PNG is rasterized with github.com/fogleman/gg and
// PDF is drawn with github.com/tdewolff/canvas.
package plan
