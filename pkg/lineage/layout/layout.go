package layout

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/lineage/pkg/lineage"
)

// Position recomputes the Y coordinate of every node below root so that each
// parent shares the row of its topmost child. A nil root is a no-op, which
// makes Position safe to call with the result of an empty graph's Root.
//
// Position visits each node at most once, so a malformed graph with a cycle
// terminates instead of recursing forever.
func Position(g *lineage.Graph, root *lineage.Node) {
	if root == nil {
		return
	}
	position(g, root, make(map[string]bool, g.NodeCount()))
}

func position(g *lineage.Graph, parent *lineage.Node, seen map[string]bool) {
	seen[parent.ID] = true
	children := g.Children(parent.ID)
	if len(children) == 0 {
		return
	}

	SortSiblings(children)
	shift := children[0].Y - parent.Y
	for _, c := range children {
		c.Y -= shift
	}
	for _, c := range children {
		if !seen[c.ID] {
			position(g, c, seen)
		}
	}
}

// SortSiblings orders nodes by Y ascending. Nodes on the same row are
// ordered by ID so the layout is deterministic.
func SortSiblings(nodes []*lineage.Node) {
	slices.SortFunc(nodes, func(a, b *lineage.Node) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.ID, b.ID))
	})
}

// Rows returns the distinct Y values in use, in ascending order.
func Rows(g *lineage.Graph) []float64 {
	rows := make(map[float64]struct{})
	for _, n := range g.Nodes() {
		rows[n.Y] = struct{}{}
	}
	return slices.Sorted(maps.Keys(rows))
}
