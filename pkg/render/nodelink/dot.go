package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineage/pkg/lineage"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the time, row and payload to node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a lineage tree to Graphviz DOT source. Links are emitted in
// child order per source so Graphviz keeps siblings in attachment order.
func ToDOT(g *lineage.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#ff6b6b\", fontsize=12];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	root, _ := g.Root()
	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if root != nil && n.ID == root.ID {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		for _, c := range g.Children(n.ID) {
			fmt.Fprintf(&buf, "  %q -> %q [id=%q];\n", n.ID, c.ID, lineage.LinkID(n.ID, c.ID))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *lineage.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{fmt.Sprintf("t=%g row=%g", n.X, n.Y)}
	if p := n.Payload; p != nil {
		parts = append(parts, fmt.Sprintf("balance: %g", p.Balance))
		for _, k := range slices.Sorted(maps.Keys(p.Snapshot)) {
			parts = append(parts, fmt.Sprintf("%s: %v", k, p.Snapshot[k]))
		}
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
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

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
