// Package lineage provides the rooted tree of simulation timelines that the
// editor prunes and the layout engine positions.
//
// # Overview
//
// A lineage tree records how a simulation branched over time. Each [Node] is
// a point in time: X is the time axis and Y is the display row. Each [Link]
// connects a parent point to the point it evolved into. Exactly one node, the
// root, has no incoming link.
//
// The graph is stored as two arenas keyed by ID. Links hold the IDs of their
// endpoints rather than pointers, and nodes hold the IDs of their incoming
// and outgoing links. An orphan is therefore detected by a map lookup, not
// by following a dangling reference.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.CreateNode], and attach
// them with [Graph.CreateLink]:
//
//	g := lineage.New(nil)
//	g.CreateNode("0_0", 0, 0, nil)
//	g.CreateNode("7_0", 7, 0, nil)
//	g.CreateLink("0_0", "7_0") // link ID "0_0-7_0"
//
// [Graph.CreateLink] is the only way to attach a link. It appends the link
// ID to the source's OutputLinks and sets the target's InputLink in the same
// step, and it fails loudly if the link already exists.
//
// # Invariants
//
// Every public operation leaves the graph satisfying:
//
//  1. Exactly one node has no input link (the root), unless the graph is empty.
//  2. Every link is listed in its source's OutputLinks and is its target's InputLink.
//  3. Every link ID held by a node resolves to a link in the graph.
//  4. Every node is reachable from the root and the structure is acyclic.
//  5. Node and link IDs are never reused after removal.
//
// [Graph.Validate] checks the first four. The fifth is enforced when IDs are
// created: removed IDs are retired and rejected by [Graph.CreateNode] and
// [Graph.CreateLink].
//
// # Editing
//
// Structural edits live in the [transform] subpackage, positioning in the
// [layout] subpackage. The removal primitives on [Graph] ([Graph.RemoveLink],
// [Graph.RemoveNode]) touch one arena each and exist for those packages; on
// their own they do not preserve the invariants.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must serialize
// access, and in particular must never interleave two deletions on the same
// graph. Use [Graph.Clone] to hand a snapshot to another goroutine.
//
// [transform]: github.com/matzehuels/lineage/pkg/lineage/transform
// [layout]: github.com/matzehuels/lineage/pkg/lineage/layout
package lineage
