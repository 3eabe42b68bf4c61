// Package io reads and writes lineage trees as JSON or YAML documents.
//
// # Format
//
// A document has two arrays and an optional metadata object:
//
//	{
//	  "nodes": [
//	    {"id": "0_0", "x": 0, "y": 0},
//	    {"id": "7_0", "x": 7, "y": 0, "balance": 1250.5}
//	  ],
//	  "links": [
//	    {"from": "0_0", "to": "7_0"}
//	  ],
//	  "meta": {"run": "baseline"}
//	}
//
// Node fields:
//   - id: unique identifier, required; must not contain "/" or "\"
//   - x: time coordinate
//   - y: display row (recomputed by the layout engine after edits)
//   - balance, snapshot: optional simulation payload, carried through untouched
//
// Links are created in document order, so the order of a node's outgoing
// links in the file is the order of its children in the tree. The YAML form
// uses the same keys.
//
// # Import
//
// [ReadJSON] and [ReadYAML] decode from any io.Reader; [ImportFile] picks the
// decoder from the file extension. Every import validates the tree: a second
// root, a node with two parents, or a link to an unknown node is rejected
// with a coded error from the errors package.
//
//	g, err := io.ImportFile("timelines.yaml")
//	if err != nil {
//	    return err
//	}
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the current state, including positions
// after any edits. Export then import reproduces the same tree.
package io
