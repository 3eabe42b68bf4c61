package transform

import (
	"slices"

	"github.com/matzehuels/lineage/pkg/lineage"
)

// PruneLinkBranch removes linkID, its target, and everything downstream of
// the target. It returns the number of nodes and links removed; both are
// zero when linkID is not in the graph.
//
// The link is also removed from its source's OutputLinks. Everything below
// the target is found by repeated orphan sweeps, see [SweepOrphans].
func PruneLinkBranch(g *lineage.Graph, linkID string) (nodes, links int) {
	l, ok := g.Link(linkID)
	if !ok {
		return 0, 0
	}

	if src, ok := g.Node(l.Source); ok {
		src.OutputLinks = slices.DeleteFunc(src.OutputLinks, func(id string) bool { return id == linkID })
	}
	g.RemoveLink(linkID)
	links++
	if g.RemoveNode(l.Target) {
		nodes++
	}

	n, k := SweepOrphans(g)
	return nodes + n, links + k
}

// SweepOrphans deletes every link whose source node is gone, together with
// the link's target, and repeats until a pass finds no orphan. It returns
// the number of nodes and links removed.
//
// Each pass either finds nothing or removes at least one node, so the sweep
// terminates after at most depth+1 passes.
func SweepOrphans(g *lineage.Graph) (nodes, links int) {
	for {
		var orphans []*lineage.Link
		for _, l := range g.Links() {
			if !g.HasNode(l.Source) {
				orphans = append(orphans, l)
			}
		}
		if len(orphans) == 0 {
			return nodes, links
		}
		for _, l := range orphans {
			if g.RemoveLink(l.ID) {
				links++
			}
			if g.RemoveNode(l.Target) {
				nodes++
			}
		}
	}
}
