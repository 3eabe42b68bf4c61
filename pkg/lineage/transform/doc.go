// Package transform implements the structural edits of a lineage tree:
// branch deletion and chain compaction.
//
// # Deletion
//
// [DeleteLink] is the single mutation entry point offered to callers. It
// runs three steps in order:
//
//  1. [PruneLinkBranch] removes the link and its target, then sweeps orphan
//     links (links whose source no longer exists) together with their
//     targets until a sweep finds nothing. This reachability sweep removes
//     the whole branch without an explicit recursive walk.
//  2. [SimplifyChains], only when [Options.Compact] is set.
//  3. [Reposition] finds the root and re-runs the layout engine.
//
// Deleting an absent link is a silent no-op: the ID may already have been
// swept away by an earlier deletion in the same logical request. The root
// is never removed, since no link points at it.
//
// # Chain Compaction
//
// A non-branching node has exactly one incoming and exactly one outgoing
// link. [SimplifyChains] replaces each such node and its two links with one
// direct link between its neighbours. It collects a batch, collapses it,
// then rescans until no non-branching node is left:
//
//	Before: P → Q → S
//	After:  P → S
//
// The root is never compacted because it has no incoming link.
//
// # Usage
//
//	res, err := transform.DeleteLink(ctx, g, "7_0-25_0", transform.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.NodesRemoved, res.Root)
package transform
