package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/codecity/pkg/layout"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes footprint and height in node labels.
	// When false, only the node name is shown.
	Detailed bool

	// GroupsOnly omits leaves.
	GroupsOnly bool

	// MaxDepth stops descending below this tree level. Zero means no limit.
	MaxDepth int
}

// ToDOT converts a layout to Graphviz DOT format. Node IDs are full paths,
// so equally named nodes in different groups stay distinct.
func ToDOT(l layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	writeNode(&buf, l.Root, l.Root.Name, 0, opts)

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n layout.Node, id string, level int, opts Options) {
	fmt.Fprintf(buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	if !n.IsGroup() || (opts.MaxDepth > 0 && level >= opts.MaxDepth) {
		return
	}
	for _, c := range n.Children {
		if opts.GroupsOnly && !c.IsGroup() {
			continue
		}
		cid := id + "/" + c.Name
		writeNode(buf, c, cid, level+1, opts)
		fmt.Fprintf(buf, "  %q -> %q;\n", id, cid)
	}
}

func fmtLabel(n layout.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	return fmt.Sprintf("%s\n%dx%d h%d", n.Name, n.Width, n.Depth, n.Height)
}

func fmtAttrs(n layout.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if n.IsGroup() {
		attrs = append(attrs, "shape=folder", "fillcolor=\"#e3ddd0\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// that scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
