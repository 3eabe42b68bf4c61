package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/generate"
	"github.com/matzehuels/lineage/pkg/lineage/transform"
)

func newTestServer(t *testing.T, g *lineage.Graph, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	opts.Logger = log.New(io.Discard)
	s := New(g, opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, ts := newTestServer(t, generate.Sample(), Options{})

	resp := do(t, http.MethodGet, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get(SessionHeader); got != s.Session() || got == "" {
		t.Errorf("%s = %q, want %q", SessionHeader, got, s.Session())
	}
	h := decode[healthResponse](t, resp)
	if h.Status != "ok" || h.Session != s.Session() {
		t.Errorf("health = %+v", h)
	}
}

func TestGraphAndRoot(t *testing.T) {
	g := generate.Sample()
	_, ts := newTestServer(t, g, Options{})

	doc := decode[struct {
		Nodes []struct{ ID string }
		Links []struct{ From, To string }
		Meta  map[string]any
	}](t, do(t, http.MethodGet, ts.URL+"/graph"))
	if len(doc.Nodes) != 9 || len(doc.Links) != 8 {
		t.Errorf("graph has %d nodes, %d links; want 9, 8", len(doc.Nodes), len(doc.Links))
	}
	if doc.Meta["graph_id"] == nil {
		t.Error("graph_id missing from metadata")
	}

	root := decode[rootResponse](t, do(t, http.MethodGet, ts.URL+"/graph/root"))
	if root.Root == nil || *root.Root != "0_0" {
		t.Errorf("root = %v, want 0_0", root.Root)
	}
}

func TestRootEmpty(t *testing.T) {
	_, ts := newTestServer(t, lineage.New(nil), Options{})

	resp := do(t, http.MethodGet, ts.URL+"/graph/root")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if root := decode[rootResponse](t, resp); root.Root != nil {
		t.Errorf("root = %q, want null", *root.Root)
	}
}

func TestDeleteLink(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		path      string
		status    int
		want      transform.Result
		wantNodes int
	}{
		{
			name:      "Branch",
			path:      "/links/7_0-17_0",
			status:    http.StatusOK,
			want:      transform.Result{Found: true, NodesRemoved: 3, LinksRemoved: 3, Root: "0_0"},
			wantNodes: 6,
		},
		{
			name:      "Absent",
			path:      "/links/nope-nada",
			status:    http.StatusOK,
			want:      transform.Result{Root: "0_0"},
			wantNodes: 9,
		},
		{
			name:      "CompactQuery",
			path:      "/links/7_0-25_0?compact=true",
			status:    http.StatusOK,
			want:      transform.Result{Found: true, NodesRemoved: 4, LinksRemoved: 4, ChainsCollapsed: 1, Root: "0_0"},
			wantNodes: 4,
		},
		{
			name:      "CompactDefault",
			opts:      Options{Edit: transform.Options{Compact: true}},
			path:      "/links/7_0-25_0",
			status:    http.StatusOK,
			want:      transform.Result{Found: true, NodesRemoved: 4, LinksRemoved: 4, ChainsCollapsed: 1, Root: "0_0"},
			wantNodes: 4,
		},
		{
			name:   "BadQuery",
			path:   "/links/7_0-25_0?compact=maybe",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts := newTestServer(t, generate.Sample(), tt.opts)
			resp := do(t, http.MethodDelete, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}

			body := decode[struct {
				Result transform.Result
				Graph  struct{ Nodes []struct{ ID string } }
			}](t, resp)
			if body.Result != tt.want {
				t.Errorf("result = %+v, want %+v", body.Result, tt.want)
			}
			if len(body.Graph.Nodes) != tt.wantNodes {
				t.Errorf("graph has %d nodes, want %d", len(body.Graph.Nodes), tt.wantNodes)
			}
		})
	}
}

func TestSimplify(t *testing.T) {
	_, ts := newTestServer(t, generate.Chain(4), Options{})

	resp := do(t, http.MethodPost, ts.URL+"/simplify")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[struct{ Result transform.Result }](t, resp)
	if body.Result.ChainsCollapsed != 2 {
		t.Errorf("collapsed = %d, want 2", body.Result.ChainsCollapsed)
	}
}

func TestSVGAndIndex(t *testing.T) {
	_, ts := newTestServer(t, generate.Sample(), Options{})

	resp := do(t, http.MethodGet, ts.URL+"/graph.svg")
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	svg, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(svg), `data-link="7_0-25_0"`) {
		t.Error("SVG missing link 7_0-25_0")
	}

	page, _ := io.ReadAll(do(t, http.MethodGet, ts.URL+"/").Body)
	if !strings.Contains(string(page), "<svg") || !strings.Contains(string(page), "method: 'DELETE'") {
		t.Error("index page missing SVG or delete handler")
	}
}

func TestConcurrentDeletes(t *testing.T) {
	g := generate.Random(11, 80)
	ids := g.LinkIDs()
	s, ts := newTestServer(t, g, Options{})

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/links/"+id, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Error(err)
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("DELETE %s: status %d", id, resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	s.withGraph(func(g *lineage.Graph) {
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
		if g.NodeCount() != 1 || g.LinkCount() != 0 {
			t.Errorf("left %d nodes, %d links; want only the root", g.NodeCount(), g.LinkCount())
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code lerrors.Code
		want int
	}{
		{lerrors.ErrCodeNotFound, http.StatusNotFound},
		{lerrors.ErrCodeInvalidInput, http.StatusBadRequest},
		{lerrors.ErrCodeInvalidNodeID, http.StatusBadRequest},
		{lerrors.ErrCodeUnsupported, http.StatusNotImplemented},
		{lerrors.ErrCodeIDReused, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(lerrors.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
