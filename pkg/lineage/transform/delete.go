package transform

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/layout"
	"github.com/matzehuels/lineage/pkg/observability"
)

// DeleteLink removes the branch hanging from linkID and repairs the graph:
// orphans are swept, chains are compacted if opts.Compact is set, and the
// whole tree is repositioned from its root.
//
// An absent linkID leaves the graph untouched and returns a Result with
// Found set to false. The only possible error comes from compaction; the
// graph is still consistent and repositioned when it is returned.
func DeleteLink(ctx context.Context, g *lineage.Graph, linkID string, opts Options) (Result, error) {
	hooks := observability.Edit()

	start := time.Now()
	var res Result
	res.Found = g.HasLink(linkID)
	res.NodesRemoved, res.LinksRemoved = PruneLinkBranch(g, linkID)
	hooks.OnPruneComplete(ctx, linkID, res.NodesRemoved, time.Since(start))

	if !res.Found {
		if root, ok := g.Root(); ok {
			res.Root = root.ID
		}
		return res, nil
	}

	var err error
	if opts.Compact {
		res.ChainsCollapsed, err = simplify(ctx, g)
	}

	res.Root = Reposition(ctx, g)
	return res, err
}

// DeleteLinks applies [DeleteLink] to each ID in order and sums the results.
// IDs swept away by an earlier deletion are skipped silently.
func DeleteLinks(ctx context.Context, g *lineage.Graph, ids []string, opts Options) (Result, error) {
	var total Result
	for _, id := range ids {
		res, err := DeleteLink(ctx, g, id, opts)
		total.add(res)
		if err != nil {
			return total, fmt.Errorf("delete %s: %w", id, err)
		}
	}
	return total, nil
}

// Compact runs [SimplifyChains] and repositions the tree. The tree is
// repositioned even if compaction stops with an error.
func Compact(ctx context.Context, g *lineage.Graph) (Result, error) {
	var res Result
	n, err := simplify(ctx, g)
	res.ChainsCollapsed = n
	res.Root = Reposition(ctx, g)
	return res, err
}

// Reposition locates the root and runs the layout engine from it. It
// returns the root ID, or "" if the graph is empty.
func Reposition(ctx context.Context, g *lineage.Graph) string {
	start := time.Now()
	root, ok := g.Root()
	layout.Position(g, root)

	id := ""
	if ok {
		id = root.ID
	}
	observability.Edit().OnLayoutComplete(ctx, id, g.NodeCount(), time.Since(start))
	return id
}

func simplify(ctx context.Context, g *lineage.Graph) (int, error) {
	start := time.Now()
	n, err := SimplifyChains(g)
	observability.Edit().OnSimplifyComplete(ctx, n, time.Since(start), err)
	if err != nil {
		return n, fmt.Errorf("simplify chains: %w", err)
	}
	return n, nil
}
