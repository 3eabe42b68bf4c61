package render

import (
	"cmp"
	"context"
	"slices"
	"time"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/render/nodelink"
	"github.com/matzehuels/lineage/pkg/render/timeline"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// Views.
const (
	StyleTimeline = "timeline"
	StyleNodeLink = "nodelink"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT}

// Styles lists the accepted views.
var Styles = []string{StyleTimeline, StyleNodeLink}

// Options configures [Render]. The zero value renders a timeline SVG with
// default geometry.
type Options struct {
	Format string
	Style  string

	// Timeline options apply to StyleTimeline only.
	Timeline []timeline.Option

	// Detailed adds coordinates and payload to nodelink labels.
	Detailed bool

	// PNGScale defaults to 2.
	PNGScale float64
}

// Render draws g in the requested view and format. DOT output is only
// available for the nodelink view.
func Render(ctx context.Context, g *lineage.Graph, opts Options) ([]byte, error) {
	format := cmp.Or(opts.Format, FormatSVG)
	style := cmp.Or(opts.Style, StyleTimeline)
	if !slices.Contains(Formats, format) {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "unknown format %q", format)
	}
	if !slices.Contains(Styles, style) {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "unknown style %q", style)
	}
	if format == FormatDOT && style != StyleNodeLink {
		return nil, lerrors.New(lerrors.ErrCodeUnsupported, "dot output requires the %s style", StyleNodeLink)
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format, g.NodeCount())
	start := time.Now()

	out, err := render(ctx, g, format, style, opts)
	hooks.OnRenderComplete(ctx, format, len(out), time.Since(start), err)
	return out, err
}

func render(ctx context.Context, g *lineage.Graph, format, style string, opts Options) ([]byte, error) {
	var svg []byte
	switch style {
	case StyleNodeLink:
		dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
		if format == FormatDOT {
			return []byte(dot), nil
		}
		var err error
		if svg, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return nil, err
		}
	default:
		svg = timeline.RenderSVG(g, opts.Timeline...)
	}

	switch format {
	case FormatPNG:
		scale := opts.PNGScale
		if scale <= 0 {
			scale = 2
		}
		return ToPNG(ctx, svg, scale)
	case FormatPDF:
		return ToPDF(ctx, svg)
	default:
		return svg, nil
	}
}
