package transform

// Options configures [DeleteLink].
//
// The zero value prunes and repositions without compacting, which keeps
// single-child points visible as distinct moments in time.
type Options struct {
	// Compact runs [SimplifyChains] after pruning.
	Compact bool
}

// Result reports what a structural edit did. It is returned by [DeleteLink],
// [DeleteLinks] and [Compact] for logging and for callers that want to
// report the effect of a user action.
type Result struct {
	// Found is true if at least one requested link was present.
	Found bool `json:"found"`

	// NodesRemoved counts nodes removed by pruning and orphan sweeps.
	NodesRemoved int `json:"nodes_removed"`

	// LinksRemoved counts links removed by pruning and orphan sweeps.
	// Links replaced during compaction are not included.
	LinksRemoved int `json:"links_removed"`

	// ChainsCollapsed counts non-branching nodes removed by compaction.
	ChainsCollapsed int `json:"chains_collapsed"`

	// Root is the ID of the root after the edit, or "" if the graph is empty.
	Root string `json:"root"`
}

func (r *Result) add(o Result) {
	r.Found = r.Found || o.Found
	r.NodesRemoved += o.NodesRemoved
	r.LinksRemoved += o.LinksRemoved
	r.ChainsCollapsed += o.ChainsCollapsed
	r.Root = o.Root
}
