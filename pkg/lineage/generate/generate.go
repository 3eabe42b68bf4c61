// Package generate builds synthetic lineage trees for demos and tests.
//
// Real trees come from simulation timeline files (see the io package). The
// generators here produce trees with the same shape conventions: the root
// sits at time 0, children are later in time than their parents, and node
// IDs have the form "<time>_<branch>".
package generate

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/lineage/pkg/lineage"
)

// Sample returns the nine-point tree used as the default demo: one timeline
// forks at t=7, and the two forks split again into two and three endings at
// t=30.
func Sample() *lineage.Graph {
	b := newBuilder("sample")
	b.node("0_0", 0, 0)
	b.node("7_0", 7, 0)
	b.node("17_0", 17, 0)
	b.node("25_0", 25, 2)
	for i := range 5 {
		b.node(fmt.Sprintf("30_%d", i), 30, float64(i))
	}

	b.link("0_0", "7_0")
	b.link("7_0", "17_0")
	b.link("7_0", "25_0")
	b.link("17_0", "30_0")
	b.link("17_0", "30_1")
	b.link("25_0", "30_2")
	b.link("25_0", "30_3")
	b.link("25_0", "30_4")
	return b.g
}

// Chain returns n points in a single unbranched timeline, c0 → c1 → ….
// Chain(0) is the empty graph.
func Chain(n int) *lineage.Graph {
	b := newBuilder("chain")
	for i := range n {
		b.node(fmt.Sprintf("c%d", i), float64(i), 0)
		if i > 0 {
			b.link(fmt.Sprintf("c%d", i-1), fmt.Sprintf("c%d", i))
		}
	}
	return b.g
}

// Star returns a root "r" with n leaves s1..sn, one per row.
func Star(n int) *lineage.Graph {
	b := newBuilder("star")
	b.node("r", 0, 0)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("s%d", i)
		b.node(id, 1, float64(i-1))
		b.link("r", id)
	}
	return b.g
}

// Random returns a tree of n points grown by attaching each new point below
// a uniformly chosen existing one. The same seed always yields the same tree.
// Each point gets its own row, so the tree needs positioning before display.
func Random(seed uint64, n int) *lineage.Graph {
	b := newBuilder("random")
	if n <= 0 {
		return b.g
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	ids := []string{"0_0"}
	xs := []int{0}
	b.node("0_0", 0, 0)
	for i := 1; i < n; i++ {
		p := rng.IntN(len(ids))
		x := xs[p] + 1 + rng.IntN(5)
		id := fmt.Sprintf("%d_%d", x, i)
		b.node(id, float64(x), float64(rng.IntN(n)))
		b.link(ids[p], id)
		ids = append(ids, id)
		xs = append(xs, x)
	}
	b.g.Meta()["seed"] = seed
	return b.g
}

type builder struct {
	g *lineage.Graph
}

func newBuilder(source string) *builder {
	return &builder{g: lineage.New(lineage.Metadata{"source": source})}
}

// node and link panic on error: generated IDs are unique by construction.
func (b *builder) node(id string, x, y float64) {
	if _, err := b.g.CreateNode(id, x, y, nil); err != nil {
		panic(err)
	}
}

func (b *builder) link(from, to string) {
	if _, err := b.g.CreateLink(from, to); err != nil {
		panic(err)
	}
}
