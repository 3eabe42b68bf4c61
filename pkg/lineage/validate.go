package lineage

import (
	"slices"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
)

// Validate checks graph integrity and returns nil if the graph is a
// well-formed rooted tree. It verifies:
//
//  1. Exactly one node has no input link, unless the graph is empty
//  2. Every link is listed by its source and is its target's input link
//  3. Every link ID held by a node resolves to a link in the graph
//  4. Every node is reachable from the root, with no cycles
//
// Violations are reported as INVARIANT_VIOLATION errors naming the first
// offending node or link in ID order. Validate runs in O(N+E).
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		if len(g.links) != 0 {
			return lerrors.New(lerrors.ErrCodeInvariant, "graph has %d links but no nodes", len(g.links))
		}
		return nil
	}
	if err := g.validateRoot(); err != nil {
		return err
	}
	if err := g.validateLinks(); err != nil {
		return err
	}
	if err := g.validateNodeRefs(); err != nil {
		return err
	}
	return g.validateReachability()
}

func (g *Graph) validateRoot() error {
	var roots []string
	for _, n := range g.Nodes() {
		if n.InputLink == "" {
			roots = append(roots, n.ID)
		}
	}
	switch len(roots) {
	case 0:
		return lerrors.New(lerrors.ErrCodeInvariant, "graph has no root")
	case 1:
		return nil
	default:
		return lerrors.New(lerrors.ErrCodeInvariant, "graph has %d roots: %v", len(roots), roots)
	}
}

func (g *Graph) validateLinks() error {
	for _, l := range g.Links() {
		src, ok := g.nodes[l.Source]
		if !ok {
			return lerrors.New(lerrors.ErrCodeInvariant, "link %s has missing source %s", l.ID, l.Source)
		}
		dst, ok := g.nodes[l.Target]
		if !ok {
			return lerrors.New(lerrors.ErrCodeInvariant, "link %s has missing target %s", l.ID, l.Target)
		}
		if !slices.Contains(src.OutputLinks, l.ID) {
			return lerrors.New(lerrors.ErrCodeInvariant, "link %s not listed in outputs of %s", l.ID, src.ID)
		}
		if dst.InputLink != l.ID {
			return lerrors.New(lerrors.ErrCodeInvariant, "link %s is not the input of %s", l.ID, dst.ID)
		}
	}
	return nil
}

func (g *Graph) validateNodeRefs() error {
	for _, n := range g.Nodes() {
		if n.InputLink != "" {
			if _, ok := g.links[n.InputLink]; !ok {
				return lerrors.New(lerrors.ErrCodeInvariant, "node %s references missing input link %s", n.ID, n.InputLink)
			}
		}
		for _, lid := range n.OutputLinks {
			l, ok := g.links[lid]
			if !ok {
				return lerrors.New(lerrors.ErrCodeInvariant, "node %s references missing output link %s", n.ID, lid)
			}
			if l.Source != n.ID {
				return lerrors.New(lerrors.ErrCodeInvariant, "node %s lists output link %s owned by %s", n.ID, lid, l.Source)
			}
		}
	}
	return nil
}

func (g *Graph) validateReachability() error {
	root, _ := g.Root()
	seen := make(map[string]bool, len(g.nodes))
	stack := []string{root.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return lerrors.New(lerrors.ErrCodeInvariant, "node %s reached twice from root", id)
		}
		seen[id] = true
		for _, c := range g.Children(id) {
			stack = append(stack, c.ID)
		}
	}
	if len(seen) != len(g.nodes) {
		for _, id := range g.NodeIDs() {
			if !seen[id] {
				return lerrors.New(lerrors.ErrCodeInvariant, "node %s is not reachable from root %s", id, root.ID)
			}
		}
	}
	return nil
}
