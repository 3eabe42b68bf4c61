// Package layout assigns display rows to the points of a lineage tree.
//
// # Rule
//
// [Position] walks the tree depth-first from the root. At every node with
// children it sorts the children by their current row (ties broken by node
// ID), shifts all of them by the same amount so the topmost child lands on
// the parent's row, and recurses. The result is that every parent sits on
// the row of its topmost child, and siblings keep their relative order.
//
// The layout is a pure function of the current rows and the link structure.
// It is re-run from scratch after every structural edit; there is no
// incremental update.
//
// # Example
//
//	root, ok := g.Root()
//	if ok {
//	    layout.Position(g, root)
//	}
//
// Only Node.Y is modified. Structure, X and payloads are never touched.
package layout
