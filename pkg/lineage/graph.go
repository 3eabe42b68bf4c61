package lineage

import (
	"cmp"
	"maps"
	"slices"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
)

// LinkSeparator joins the two endpoint IDs that make up a link ID. Node IDs
// never contain it.
const LinkSeparator = lerrors.LinkSeparator

// Metadata stores arbitrary key-value pairs attached to the graph, such as
// the file it was ingested from. Metadata maps are never nil after [New].
type Metadata map[string]any

// Payload is the domain data carried by a point in time. The editor and the
// layout engine never read it; it travels with the node for renderers and
// exporters.
type Payload struct {
	Balance  float64        // Monetary balance at this instant
	Snapshot map[string]any // Opaque per-entity state at this instant
}

// Node is a point on a simulation timeline.
//
// The zero value is not usable; create nodes with [Graph.CreateNode].
type Node struct {
	ID      string
	X       float64  // Time axis
	Y       float64  // Display row, rewritten by the layout engine
	Payload *Payload // Optional

	// InputLink is the ID of the incoming link, or "" for the root.
	InputLink string
	// OutputLinks lists outgoing link IDs in attachment order.
	OutputLinks []string
}

// IsRoot reports whether the node has no incoming link.
func (n *Node) IsRoot() bool { return n.InputLink == "" }

// IsLeaf reports whether the node has no outgoing links.
func (n *Node) IsLeaf() bool { return len(n.OutputLinks) == 0 }

// Link is a directed connection from a parent point to a child point.
// Endpoints are stored as node IDs.
type Link struct {
	ID     string
	Source string
	Target string
}

// LinkID derives the identity of the link from source to target.
func LinkID(source, target string) string {
	return source + LinkSeparator + target
}

// Graph is a rooted tree of timeline points stored as a node arena and a
// link arena. It also remembers every ID it has ever removed so that no ID
// is handed out twice.
//
// The zero value is not usable - use [New]. Graph is not safe for
// concurrent use without external synchronization.
type Graph struct {
	nodes        map[string]*Node
	links        map[string]*Link
	retiredNodes map[string]struct{}
	retiredLinks map[string]struct{}
	meta         Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes:        make(map[string]*Node),
		links:        make(map[string]*Link),
		retiredNodes: make(map[string]struct{}),
		retiredLinks: make(map[string]struct{}),
		meta:         meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// CreateNode adds an unattached node at (x, y).
//
// Returns an INVALID_NODE_ID error for malformed IDs, including IDs that
// contain [LinkSeparator], DUPLICATE_NODE if the
// ID is in use, and ID_REUSED if a node with this ID was removed earlier.
func (g *Graph) CreateNode(id string, x, y float64, p *Payload) (*Node, error) {
	if err := lerrors.ValidateNodeID(id); err != nil {
		return nil, err
	}
	if _, ok := g.nodes[id]; ok {
		return nil, lerrors.New(lerrors.ErrCodeDuplicateNode, "node %s already exists", id)
	}
	if g.Retired(id) {
		return nil, lerrors.New(lerrors.ErrCodeIDReused, "node ID %s was already used in this graph", id)
	}
	n := &Node{ID: id, X: x, Y: y, Payload: p, OutputLinks: []string{}}
	g.nodes[id] = n
	return n, nil
}

// CreateLink attaches target below source and returns the new link.
//
// On success the link ID is appended to the source's OutputLinks and set as
// the target's InputLink. CreateLink fails without modifying the graph if
// either endpoint is unknown, the link already exists or existed before,
// the target already has a parent, or the link would close a cycle.
func (g *Graph) CreateLink(sourceID, targetID string) (*Link, error) {
	src, ok := g.nodes[sourceID]
	if !ok {
		return nil, lerrors.New(lerrors.ErrCodeNotFound, "unknown source node %s", sourceID)
	}
	dst, ok := g.nodes[targetID]
	if !ok {
		return nil, lerrors.New(lerrors.ErrCodeNotFound, "unknown target node %s", targetID)
	}
	if sourceID == targetID {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "link %s would be a self-loop", sourceID)
	}

	id := LinkID(sourceID, targetID)
	if err := g.CheckLinkID(id); err != nil {
		return nil, err
	}
	if dst.InputLink != "" {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "node %s already has input link %s", targetID, dst.InputLink)
	}
	if g.isAncestor(targetID, sourceID) {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "link %s would create a cycle", id)
	}

	l := &Link{ID: id, Source: sourceID, Target: targetID}
	g.links[id] = l
	src.OutputLinks = append(src.OutputLinks, id)
	dst.InputLink = id
	return l, nil
}

// CheckLinkID reports whether id can be given to a new link. It returns a
// DUPLICATE_LINK error if the link exists and ID_REUSED if it was removed.
func (g *Graph) CheckLinkID(id string) error {
	if _, ok := g.links[id]; ok {
		return lerrors.New(lerrors.ErrCodeDuplicateLink, "link %s already exists", id)
	}
	if g.Retired(id) {
		return lerrors.New(lerrors.ErrCodeIDReused, "link ID %s was already used in this graph", id)
	}
	return nil
}

// isAncestor reports whether candidate lies on the path from id up to its root.
func (g *Graph) isAncestor(candidate, id string) bool {
	seen := make(map[string]bool)
	for cur := id; !seen[cur]; {
		if cur == candidate {
			return true
		}
		seen[cur] = true
		p, ok := g.Parent(cur)
		if !ok {
			return false
		}
		cur = p.ID
	}
	return false
}

// RemoveLink deletes a link from the link arena and retires its ID.
// It does not touch either endpoint; callers repair back-references.
// Reports whether the link existed.
func (g *Graph) RemoveLink(id string) bool {
	if _, ok := g.links[id]; !ok {
		return false
	}
	delete(g.links, id)
	g.retiredLinks[id] = struct{}{}
	return true
}

// RemoveNode deletes a node from the node arena and retires its ID.
// It does not touch links that reference the node; callers clean them up.
// Reports whether the node existed.
func (g *Graph) RemoveNode(id string) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	delete(g.nodes, id)
	g.retiredNodes[id] = struct{}{}
	return true
}

// Node returns the node with the given ID.
// The returned pointer refers to the node in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Link returns the link with the given ID.
func (g *Graph) Link(id string) (*Link, bool) {
	l, ok := g.links[id]
	return l, ok
}

// HasNode reports whether a node with the given ID is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasLink reports whether a link with the given ID is in the graph.
func (g *Graph) HasLink(id string) bool {
	_, ok := g.links[id]
	return ok
}

// Retired reports whether id belonged to a node or link that has been removed.
// Node IDs never contain [LinkSeparator] and link IDs always do, so the two
// sets cannot overlap.
func (g *Graph) Retired(id string) bool {
	_, n := g.retiredNodes[id]
	_, l := g.retiredLinks[id]
	return n || l
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []*Node {
	nodes := slices.Collect(maps.Values(g.nodes))
	slices.SortFunc(nodes, func(a, b *Node) int { return cmp.Compare(a.ID, b.ID) })
	return nodes
}

// Links returns all links sorted by ID.
func (g *Graph) Links() []*Link {
	links := slices.Collect(maps.Values(g.links))
	slices.SortFunc(links, func(a, b *Link) int { return cmp.Compare(a.ID, b.ID) })
	return links
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []string { return slices.Sorted(maps.Keys(g.nodes)) }

// LinkIDs returns all link IDs in ascending order.
func (g *Graph) LinkIDs() []string { return slices.Sorted(maps.Keys(g.links)) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links in the graph.
func (g *Graph) LinkCount() int { return len(g.links) }

// Children returns the targets of the node's outgoing links, in OutputLinks
// order. Links that no longer resolve are skipped.
func (g *Graph) Children(id string) []*Node {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	children := make([]*Node, 0, len(n.OutputLinks))
	for _, lid := range n.OutputLinks {
		l, ok := g.links[lid]
		if !ok {
			continue
		}
		if c, ok := g.nodes[l.Target]; ok {
			children = append(children, c)
		}
	}
	return children
}

// Parent returns the source of the node's incoming link.
// Returns nil and false for the root or an unknown node.
func (g *Graph) Parent(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	if !ok || n.InputLink == "" {
		return nil, false
	}
	l, ok := g.links[n.InputLink]
	if !ok {
		return nil, false
	}
	p, ok := g.nodes[l.Source]
	return p, ok
}

// Root returns the node with no incoming link, or nil and false for an
// empty graph. Root is a linear scan; it is not cached. On a graph that
// violates the single-root invariant, the root with the smallest ID wins.
func (g *Graph) Root() (*Node, bool) {
	var root *Node
	for _, n := range g.nodes {
		if n.InputLink != "" {
			continue
		}
		if root == nil || n.ID < root.ID {
			root = n
		}
	}
	return root, root != nil
}

// Clone returns a deep copy of the graph, including its retired IDs.
// Snapshot maps inside payloads are copied one level deep.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:        make(map[string]*Node, len(g.nodes)),
		links:        make(map[string]*Link, len(g.links)),
		retiredNodes: maps.Clone(g.retiredNodes),
		retiredLinks: maps.Clone(g.retiredLinks),
		meta:         maps.Clone(g.meta),
	}
	for id, n := range g.nodes {
		cn := *n
		cn.OutputLinks = slices.Clone(n.OutputLinks)
		if n.Payload != nil {
			p := *n.Payload
			p.Snapshot = maps.Clone(n.Payload.Snapshot)
			cn.Payload = &p
		}
		c.nodes[id] = &cn
	}
	for id, l := range g.links {
		cl := *l
		c.links[id] = &cl
	}
	return c
}
