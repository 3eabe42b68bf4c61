package transform

import (
	"context"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/generate"
	"github.com/matzehuels/lineage/pkg/observability"
)

func rows(g *lineage.Graph) map[string]float64 {
	m := make(map[string]float64, g.NodeCount())
	for _, n := range g.Nodes() {
		m[n.ID] = n.Y
	}
	return m
}

func TestDeleteLink(t *testing.T) {
	tests := []struct {
		name      string
		graph     func() *lineage.Graph
		link      string
		opts      Options
		want      Result
		wantLinks []string
		wantRows  map[string]float64
	}{
		{
			name:      "StarLeafShiftsSiblingsUp",
			graph:     func() *lineage.Graph { return generate.Star(3) },
			link:      "r-s1",
			want:      Result{Found: true, NodesRemoved: 1, LinksRemoved: 1, Root: "r"},
			wantLinks: []string{"r-s2", "r-s3"},
			wantRows:  map[string]float64{"r": 0, "s2": 0, "s3": 1},
		},
		{
			name:      "UpperForkRemoved",
			graph:     generate.Sample,
			link:      "7_0-17_0",
			want:      Result{Found: true, NodesRemoved: 3, LinksRemoved: 3, Root: "0_0"},
			wantLinks: []string{"0_0-7_0", "25_0-30_2", "25_0-30_3", "25_0-30_4", "7_0-25_0"},
			wantRows: map[string]float64{
				"0_0": 0, "7_0": 0, "25_0": 0,
				"30_2": 0, "30_3": 1, "30_4": 2,
			},
		},
		{
			name:      "NoCompaction",
			graph:     generate.Sample,
			link:      "7_0-25_0",
			want:      Result{Found: true, NodesRemoved: 4, LinksRemoved: 4, Root: "0_0"},
			wantLinks: []string{"0_0-7_0", "17_0-30_0", "17_0-30_1", "7_0-17_0"},
		},
		{
			name:      "Compaction",
			graph:     generate.Sample,
			link:      "7_0-25_0",
			opts:      Options{Compact: true},
			want:      Result{Found: true, NodesRemoved: 4, LinksRemoved: 4, ChainsCollapsed: 1, Root: "0_0"},
			wantLinks: []string{"0_0-17_0", "17_0-30_0", "17_0-30_1"},
			wantRows:  map[string]float64{"0_0": 0, "17_0": 0, "30_0": 0, "30_1": 1},
		},
		{
			name:      "Absent",
			graph:     generate.Sample,
			link:      "nope",
			want:      Result{Root: "0_0"},
			wantLinks: generate.Sample().LinkIDs(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.graph()
			got, err := DeleteLink(context.Background(), g, tt.link, tt.opts)
			if err != nil {
				t.Fatalf("DeleteLink() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DeleteLink() = %+v, want %+v", got, tt.want)
			}
			if links := g.LinkIDs(); !slices.Equal(links, tt.wantLinks) {
				t.Errorf("LinkIDs() = %v, want %v", links, tt.wantLinks)
			}
			for id, want := range tt.wantRows {
				n, ok := g.Node(id)
				if !ok {
					t.Errorf("node %s missing", id)
					continue
				}
				if n.Y != want {
					t.Errorf("%s.Y = %v, want %v", id, n.Y, want)
				}
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestDeleteLinkTwice(t *testing.T) {
	ctx := context.Background()
	g := generate.Sample()
	if _, err := DeleteLink(ctx, g, "17_0-30_1", Options{}); err != nil {
		t.Fatal(err)
	}
	before := rows(g)
	links := g.LinkIDs()

	res, err := DeleteLink(ctx, g, "17_0-30_1", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Found || res.NodesRemoved != 0 {
		t.Errorf("second DeleteLink() = %+v, want no-op", res)
	}
	if !slices.Equal(g.LinkIDs(), links) {
		t.Errorf("LinkIDs() changed: %v -> %v", links, g.LinkIDs())
	}
	for id, y := range rows(g) {
		if before[id] != y {
			t.Errorf("%s.Y changed: %v -> %v", id, before[id], y)
		}
	}
}

func TestDeleteLinks(t *testing.T) {
	g := generate.Sample()
	res, err := DeleteLinks(context.Background(), g,
		[]string{"7_0-25_0", "25_0-30_3", "17_0-30_1"}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := Result{Found: true, NodesRemoved: 5, LinksRemoved: 5, Root: "0_0"}
	if res != want {
		t.Errorf("DeleteLinks() = %+v, want %+v", res, want)
	}
	if got := g.NodeIDs(); !slices.Equal(got, []string{"0_0", "17_0", "30_0", "7_0"}) {
		t.Errorf("NodeIDs() = %v", got)
	}
}

func TestCompact(t *testing.T) {
	g := generate.Chain(4)
	res, err := Compact(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	if res.ChainsCollapsed != 2 || res.Root != "c0" {
		t.Errorf("Compact() = %+v, want 2 collapsed from c0", res)
	}
	if got := g.LinkIDs(); !slices.Equal(got, []string{"c0-c3"}) {
		t.Errorf("LinkIDs() = %v, want [c0-c3]", got)
	}
}

// retiredShortcut builds r -> a -> b plus r -> c, where the ID r-b was used
// and removed earlier, so collapsing a cannot succeed.
func retiredShortcut(t *testing.T) *lineage.Graph {
	t.Helper()
	g := lineage.New(nil)
	for _, n := range []struct {
		id   string
		x, y float64
	}{{"r", 0, 0}, {"a", 1, 3}, {"b", 2, 5}, {"c", 1, 1}} {
		if _, err := g.CreateNode(n.id, n.x, n.y, nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := g.CreateLink("r", "b"); err != nil {
		t.Fatal(err)
	}
	g.RemoveLink("r-b")
	r, _ := g.Node("r")
	b, _ := g.Node("b")
	r.OutputLinks = r.OutputLinks[:0]
	b.InputLink = ""
	for _, l := range [][2]string{{"r", "a"}, {"a", "b"}, {"r", "c"}} {
		if _, err := g.CreateLink(l[0], l[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestDeleteLinkCompactionErrorStillRepositions(t *testing.T) {
	g := retiredShortcut(t)

	res, err := DeleteLink(context.Background(), g, "r-c", Options{Compact: true})
	if !lerrors.Is(err, lerrors.ErrCodeIDReused) {
		t.Fatalf("DeleteLink() error = %v, want ID_REUSED", err)
	}
	if !res.Found || res.Root != "r" {
		t.Errorf("Result = %+v, want Found and root r", res)
	}
	if got, want := rows(g), map[string]float64{"r": 0, "a": 0, "b": 0}; !maps.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestCompactErrorStillRepositions(t *testing.T) {
	g := retiredShortcut(t)

	res, err := Compact(context.Background(), g)
	if !lerrors.Is(err, lerrors.ErrCodeIDReused) {
		t.Fatalf("Compact() error = %v, want ID_REUSED", err)
	}
	if res.Root != "r" {
		t.Errorf("Root = %q, want r", res.Root)
	}
	// c is the topmost child of r once it sits on row 1 and a on row 3
	if got, want := rows(g), map[string]float64{"r": 0, "c": 0, "a": 2, "b": 2}; !maps.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestRepositionEmpty(t *testing.T) {
	if root := Reposition(context.Background(), lineage.New(nil)); root != "" {
		t.Errorf("Reposition(empty) = %q, want empty", root)
	}
}

type recordingHooks struct {
	observability.NoopEditHooks
	mu         sync.Mutex
	pruned     []string
	removed    []int
	layouts    []string
	simplified int
}

func (h *recordingHooks) OnPruneComplete(_ context.Context, id string, n int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruned = append(h.pruned, id)
	h.removed = append(h.removed, n)
}

func (h *recordingHooks) OnSimplifyComplete(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.simplified++
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, root string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts = append(h.layouts, root)
}

func TestDeleteLinkHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetEditHooks(h)
	defer observability.Reset()

	ctx := context.Background()
	g := generate.Sample()
	_, _ = DeleteLink(ctx, g, "7_0-25_0", Options{Compact: true})
	_, _ = DeleteLink(ctx, g, "missing", Options{})

	if want := []string{"7_0-25_0", "missing"}; !slices.Equal(h.pruned, want) {
		t.Errorf("pruned = %v, want %v", h.pruned, want)
	}
	if want := []int{4, 0}; !slices.Equal(h.removed, want) {
		t.Errorf("removed = %v, want %v", h.removed, want)
	}
	if h.simplified != 1 {
		t.Errorf("simplify events = %d, want 1", h.simplified)
	}
	// An absent link skips repositioning.
	if want := []string{"0_0"}; !slices.Equal(h.layouts, want) {
		t.Errorf("layouts = %v, want %v", h.layouts, want)
	}
}
