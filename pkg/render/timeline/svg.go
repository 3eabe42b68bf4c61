package timeline

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/lineage/pkg/lineage"
)

// Default geometry, in pixels per unit and pixels.
const (
	DefaultScale       = 40
	DefaultTranslate   = 100
	DefaultNodeRadius  = 10
	DefaultStrokeWidth = 5

	hitWidth = 25
)

const linkInteractionCSS = `
    .link { stroke: black; fill: none; }
    .link-hit { stroke: transparent; fill: none; cursor: pointer; }
    .link-group:hover .link, .link.highlight { stroke: blue; }
    .node { stroke: black; fill: red; }
    .label { fill: magenta; font: 10px monospace; }`

// Option configures [RenderSVG].
type Option func(*renderer)

type renderer struct {
	scale       float64
	tx, ty      float64
	radius      float64
	strokeWidth float64
	labels      bool
	highlight   string
}

func WithScale(s float64) Option           { return func(r *renderer) { r.scale = s } }
func WithTranslate(x, y float64) Option    { return func(r *renderer) { r.tx, r.ty = x, y } }
func WithNodeRadius(radius float64) Option { return func(r *renderer) { r.radius = radius } }
func WithStrokeWidth(w float64) Option     { return func(r *renderer) { r.strokeWidth = w } }
func WithHighlight(linkID string) Option   { return func(r *renderer) { r.highlight = linkID } }

// WithLabels prints each node's ID, input link and output links next to it.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		scale:       DefaultScale,
		tx:          DefaultTranslate,
		ty:          DefaultTranslate,
		radius:      DefaultNodeRadius,
		strokeWidth: DefaultStrokeWidth,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws g as a standalone SVG document. Links are drawn before
// nodes so circles sit on top; both are emitted in ID order.
func RenderSVG(g *lineage.Graph, opts ...Option) []byte {
	r := newRenderer(opts...)
	w, h := r.frame(g)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", linkInteractionCSS)

	for _, l := range g.Links() {
		src, okS := g.Node(l.Source)
		dst, okD := g.Node(l.Target)
		if !okS || !okD {
			continue
		}
		r.renderLink(&buf, l.ID, src, dst)
	}
	for _, n := range g.Nodes() {
		r.renderNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) px(x float64) float64 { return x*r.scale + r.tx }
func (r renderer) py(y float64) float64 { return y*r.scale + r.ty }

// frame returns the canvas size: the bounding box of all nodes plus the
// translation as margin on every side.
func (r renderer) frame(g *lineage.Graph) (float64, float64) {
	var maxX, maxY float64
	for _, n := range g.Nodes() {
		maxX = max(maxX, n.X)
		maxY = max(maxY, n.Y)
	}
	return maxX*r.scale + 2*r.tx, maxY*r.scale + 2*r.ty
}

// linkPath returns the SVG path data for a link between src and dst.
func (r renderer) linkPath(src, dst *lineage.Node) string {
	x1, y1 := r.px(src.X), r.py(src.Y)
	x2, y2 := r.px(dst.X), r.py(dst.Y)
	if src.Y == dst.Y {
		return fmt.Sprintf("M %.1f %.1f L %.1f %.1f", x1, y1, x2, y2)
	}
	c1x, c1y := r.px(src.X+0.5), r.py((src.Y+dst.Y)/2)
	c2x, c2y := r.px(src.X+1), r.py(dst.Y)
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f %.1f %.1f %.1f %.1f", x1, y1, c1x, c1y, c2x, c2y, x2, y2)
}

func (r renderer) renderLink(buf *bytes.Buffer, id string, src, dst *lineage.Node) {
	d := r.linkPath(src, dst)
	esc := html.EscapeString(id)
	class := "link"
	if id == r.highlight {
		class += " highlight"
	}
	fmt.Fprintf(buf, `  <g class="link-group" data-link="%s">`+"\n", esc)
	fmt.Fprintf(buf, `    <path class="link-hit" data-link="%s" d="%s" stroke-width="%d"/>`+"\n", esc, d, hitWidth)
	fmt.Fprintf(buf, `    <path id="link-%s" class="%s" data-link="%s" d="%s" stroke-width="%.1f"/>`+"\n",
		esc, class, esc, d, r.strokeWidth)
	buf.WriteString("  </g>\n")
}

func (r renderer) renderNode(buf *bytes.Buffer, n *lineage.Node) {
	cx, cy := r.px(n.X), r.py(n.Y)
	esc := html.EscapeString(n.ID)
	fmt.Fprintf(buf, `  <circle id="node-%s" class="node" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", esc, cx, cy, r.radius)
	if !r.labels {
		return
	}

	lines := []string{n.ID, n.InputLink, strings.Join(n.OutputLinks, ",")}
	fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f">`, cx+r.radius, cy+r.radius)
	for i, line := range lines {
		dy := "0"
		if i > 0 {
			dy = "1.2em"
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%s">%s</tspan>`, cx+r.radius, dy, html.EscapeString(line))
	}
	buf.WriteString("</text>\n")
}
