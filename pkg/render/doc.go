// Package render turns a lineage tree into a displayable document.
//
// # Overview
//
// Two views are available:
//
//   - [StyleTimeline]: the tree on a time axis, drawn by the [timeline]
//     subpackage from the stored coordinates
//   - [StyleNodeLink]: a Graphviz diagram from the [nodelink] subpackage
//
// [Render] picks the view and output format and reports to the render hooks
// in the observability package:
//
//	out, err := render.Render(ctx, g, render.Options{Format: render.FormatPNG})
//
// # Format Conversion
//
// PNG and PDF are produced from the SVG with the external rsvg-convert tool
// (from librsvg). [ToPDF] and [ToPNG] can also be used directly.
//
// [timeline]: github.com/matzehuels/lineage/pkg/render/timeline
// [nodelink]: github.com/matzehuels/lineage/pkg/render/nodelink
package render
