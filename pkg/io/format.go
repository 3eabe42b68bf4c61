package io

import "github.com/matzehuels/lineage/pkg/lineage"

// Document is the serialized form of a lineage tree.
type Document struct {
	Nodes []Node           `json:"nodes" yaml:"nodes"`
	Links []Link           `json:"links" yaml:"links"`
	Meta  lineage.Metadata `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Node is one point of a [Document].
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	X        float64        `json:"x" yaml:"x"`
	Y        float64        `json:"y" yaml:"y"`
	Balance  *float64       `json:"balance,omitempty" yaml:"balance,omitempty"`
	Snapshot map[string]any `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

// Link is one parent-child pair of a [Document].
type Link struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

func (n Node) payload() *lineage.Payload {
	if n.Balance == nil && n.Snapshot == nil {
		return nil
	}
	p := &lineage.Payload{Snapshot: n.Snapshot}
	if n.Balance != nil {
		p.Balance = *n.Balance
	}
	return p
}

// Graph creates the tree described by d and validates it. Links are created
// in document order.
func (d Document) Graph() (*lineage.Graph, error) {
	g := lineage.New(d.Meta)
	for _, n := range d.Nodes {
		if _, err := g.CreateNode(n.ID, n.X, n.Y, n.payload()); err != nil {
			return nil, err
		}
	}
	for _, l := range d.Links {
		if _, err := g.CreateLink(l.From, l.To); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// FromGraph captures the current state of g. Nodes are sorted by ID and
// links are grouped by source in child order.
func FromGraph(g *lineage.Graph) Document {
	d := Document{
		Nodes: make([]Node, 0, g.NodeCount()),
		Links: make([]Link, 0, g.LinkCount()),
		Meta:  g.Meta(),
	}
	for _, n := range g.Nodes() {
		nd := Node{ID: n.ID, X: n.X, Y: n.Y}
		if n.Payload != nil {
			b := n.Payload.Balance
			nd.Balance = &b
			nd.Snapshot = n.Payload.Snapshot
		}
		d.Nodes = append(d.Nodes, nd)

		// Grouped by source so that child order survives a round trip.
		for _, c := range g.Children(n.ID) {
			d.Links = append(d.Links, Link{From: n.ID, To: c.ID})
		}
	}
	if len(d.Meta) == 0 {
		d.Meta = nil
	}
	return d
}
