package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/cache"
	lio "github.com/matzehuels/lineage/pkg/io"
	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/render"
	"github.com/matzehuels/lineage/pkg/render/timeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file, "-" for stdout
	format    string  // svg, png, pdf, dot
	style     string  // timeline, nodelink
	detailed  bool    // coordinates and payload in nodelink labels
	labels    bool    // point IDs next to timeline nodes
	highlight string  // link drawn in the hover colour
	pngScale  float64 // rasterization scale
	noCache   bool    // bypass the render cache
}

// renderCommand draws a tree as a timeline or a node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: render.FormatSVG, style: render.StyleTimeline, pngScale: 2}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a lineage tree",
		Long: `Render draws a tree in one of two views:

  timeline   time on the horizontal axis, one row per display position
  nodelink   a left-to-right Graphviz diagram of the structure

SVG is produced natively. PNG and PDF are converted with rsvg-convert, which
must be installed. DOT is only available for the nodelink view.`,
		Example: `  lineage render tree.json
  lineage render tree.json -t nodelink -f png -o tree.png
  lineage sample | lineage render - -o - > tree.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}

			store, err := newCache(opts.noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			prog := newProgress(logger)
			data, err := c.renderCached(cmd.Context(), store, g, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %s %s", opts.style, opts.format))

			path := outputPath(opts.output, args[0], opts.format)
			if path == stdio {
				_, err := c.stdout.Write(data)
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&opts.style, "type", "t", opts.style, "view: "+strings.Join(render.Styles, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show coordinates and payload (nodelink)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label points with their IDs (timeline)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "link ID to highlight (timeline)")
	cmd.Flags().Float64Var(&opts.pngScale, "scale", opts.pngScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(render.Formats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(render.Styles, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// renderCached returns a cached artifact for the same tree and options, or
// renders and stores one. Cache failures are logged and otherwise ignored.
func (c *CLI) renderCached(ctx context.Context, store cache.Cache, g *lineage.Graph, opts renderOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)

	var doc bytes.Buffer
	if err := lio.WriteJSON(g, &doc); err != nil {
		return nil, err
	}
	key := cache.Key("render", cache.Hash(doc.Bytes()),
		opts.format, opts.style, opts.detailed, opts.labels, opts.highlight, opts.pngScale, c.Config.Render)

	if data, ok, err := store.Get(ctx, key); err != nil {
		logger.Warn("Cache read failed", "error", err)
	} else if ok {
		logger.Debug("Cache hit", "key", key)
		return data, nil
	}

	data, err := render.Render(ctx, g, render.Options{
		Format:   opts.format,
		Style:    opts.style,
		Timeline: c.renderTimelineOptions(opts),
		Detailed: opts.detailed,
		PNGScale: opts.pngScale,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, data, renderTTL); err != nil {
		logger.Warn("Cache write failed", "error", err)
	}
	return data, nil
}

func (c *CLI) renderTimelineOptions(opts renderOpts) []timeline.Option {
	out := c.timelineOptions()
	if opts.labels {
		out = append(out, timeline.WithLabels())
	}
	if opts.highlight != "" {
		out = append(out, timeline.WithHighlight(opts.highlight))
	}
	return out
}

// outputPath picks where rendered bytes go. Without -o the file is named
// after the input with the format as extension; stdin input goes to stdout.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	if input == stdio {
		return stdio
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}
