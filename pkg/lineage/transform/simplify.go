package transform

import (
	"fmt"
	"slices"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/lineage"
)

// IsNonBranching reports whether n has exactly one incoming and exactly one
// outgoing link. The root is never non-branching.
func IsNonBranching(n *lineage.Node) bool {
	return n.InputLink != "" && len(n.OutputLinks) == 1
}

// SimplifyChains collapses every non-branching node into a direct link
// between its parent and its child, and returns the number of nodes removed.
//
// Nodes are collected in one scan and collapsed as a batch, then the graph is
// rescanned, until a scan finds nothing. The result is a fixed point: every
// remaining node is a leaf, branches, or is the root.
//
// The replacement link is appended to the parent's OutputLinks. If its ID is
// already taken or was used before, SimplifyChains stops and returns the
// error before touching the offending node, so the graph stays consistent.
func SimplifyChains(g *lineage.Graph) (int, error) {
	collapsed := 0
	for {
		var batch []string
		for _, n := range g.Nodes() {
			if IsNonBranching(n) {
				batch = append(batch, n.ID)
			}
		}
		if len(batch) == 0 {
			return collapsed, nil
		}

		for _, id := range batch {
			ok, err := collapse(g, id)
			if err != nil {
				return collapsed, fmt.Errorf("collapse %s: %w", id, err)
			}
			if ok {
				collapsed++
			}
		}
	}
}

// collapse replaces origin → id → destination with origin → destination.
// It reports false if id is gone or no longer non-branching.
func collapse(g *lineage.Graph, id string) (bool, error) {
	n, ok := g.Node(id)
	if !ok || !IsNonBranching(n) {
		return false, nil
	}

	in, ok := g.Link(n.InputLink)
	if !ok {
		return false, lerrors.New(lerrors.ErrCodeInvariant, "missing input link %s", n.InputLink)
	}
	out, ok := g.Link(n.OutputLinks[0])
	if !ok {
		return false, lerrors.New(lerrors.ErrCodeInvariant, "missing output link %s", n.OutputLinks[0])
	}
	origin, ok := g.Node(in.Source)
	if !ok {
		return false, lerrors.New(lerrors.ErrCodeInvariant, "missing origin %s", in.Source)
	}
	dest, ok := g.Node(out.Target)
	if !ok {
		return false, lerrors.New(lerrors.ErrCodeInvariant, "missing destination %s", out.Target)
	}
	if err := g.CheckLinkID(lineage.LinkID(origin.ID, dest.ID)); err != nil {
		return false, err
	}

	origin.OutputLinks = slices.DeleteFunc(origin.OutputLinks, func(lid string) bool { return lid == in.ID })
	dest.InputLink = ""
	g.RemoveLink(in.ID)
	g.RemoveLink(out.ID)
	g.RemoveNode(n.ID)

	if _, err := g.CreateLink(origin.ID, dest.ID); err != nil {
		return false, lerrors.Wrap(lerrors.ErrCodeInternal, err, "relink %s to %s", origin.ID, dest.ID)
	}
	return true, nil
}
