// Package nodelink renders lineage trees as Graphviz node-link diagrams.
//
// # Overview
//
// This is an alternative to the timeline view that ignores stored rows and
// lets Graphviz place the nodes. It is useful for checking the structure of
// a tree after heavy editing, when the timeline layout gets crowded.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The generated DOT uses left-to-right layout (rankdir=LR), so time still
// flows the same way as in the timeline view. The root is drawn with a
// double outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
