package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
	lio "github.com/matzehuels/lineage/pkg/io"
	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/generate"
	"github.com/matzehuels/lineage/pkg/observability"
)

// run executes the root command with stdin and returns what the command
// wrote to stdout and to the status stream.
func run(t *testing.T, stdin string, args ...string) (stdout, status string, err error) {
	t.Helper()
	return runWithCache(t, t.TempDir(), stdin, args...)
}

func runWithCache(t *testing.T, cacheHome, stdin string, args ...string) (stdout, status string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Cleanup(observability.Reset)

	var out, ui bytes.Buffer
	prev := uiOut
	uiOut = &ui
	t.Cleanup(func() { uiOut = prev })

	c := New(io.Discard, LogInfo)
	c.stdin = strings.NewReader(stdin)
	c.stdout = &out

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err = root.ExecuteContext(context.Background())
	return out.String(), ui.String(), err
}

func sampleJSON(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := lio.WriteJSON(generate.Sample(), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	return buf.String()
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := lio.ExportJSON(generate.Sample(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	return path
}

func parseOutput(t *testing.T, out string) *lineage.Graph {
	t.Helper()
	g, err := lio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a lineage tree: %v\n%s", err, out)
	}
	return g
}

func TestSampleCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		nodes int
	}{
		{"Default", []string{"sample"}, 9},
		{"Chain", []string{"sample", "--kind", "chain", "-n", "4"}, 4},
		{"Star", []string{"sample", "--kind", "star", "-n", "3"}, 4},
		{"Random", []string{"sample", "--kind", "random", "-n", "12", "--seed", "3"}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			if g := parseOutput(t, out); g.NodeCount() != tt.nodes {
				t.Errorf("NodeCount() = %d, want %d", g.NodeCount(), tt.nodes)
			}
		})
	}
}

func TestSampleCommandErrors(t *testing.T) {
	_, _, err := run(t, "", "sample", "--kind", "spiral")
	if !lerrors.Is(err, lerrors.ErrCodeInvalidInput) {
		t.Errorf("unknown kind error = %v, want INVALID_INPUT", err)
	}
	_, _, err = run(t, "", "sample", "--kind", "chain", "-n", "-1")
	if !lerrors.Is(err, lerrors.ErrCodeInvalidInput) {
		t.Errorf("negative size error = %v, want INVALID_INPUT", err)
	}
}

func TestSampleToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	out, status, err := run(t, "", "sample", "-o", path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing when -o is set", out)
	}
	if !strings.Contains(status, path) {
		t.Errorf("status %q does not mention %s", status, path)
	}
	if _, err := lio.ImportJSON(path); err != nil {
		t.Errorf("ImportJSON(%s): %v", path, err)
	}
}

func TestCheckCommand(t *testing.T) {
	path := writeSample(t)
	_, status, err := run(t, "", "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(status, "is valid") {
		t.Errorf("status = %q, want a success line", status)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	doc := `{"nodes":[{"id":"a","x":0,"y":0},{"id":"b","x":1,"y":0}],"links":[]}`
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "", "check", bad); err == nil {
		t.Error("check of a two-root file should fail")
	}

	if _, _, err := run(t, "", "check", filepath.Join(t.TempDir(), "missing.json")); !lerrors.Is(err, lerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestShowCommand(t *testing.T) {
	out, _, err := run(t, sampleJSON(t), "show", "-")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"0_0", "7_0", "25_0", "30_4"} {
		if !strings.Contains(out, id) {
			t.Errorf("tree output missing %s:\n%s", id, out)
		}
	}
}

func TestPruneCommand(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		config string
		nodes  []string
		links  []string
	}{
		{
			name:  "Prune",
			args:  []string{"prune", "-", "7_0-25_0"},
			nodes: []string{"0_0", "17_0", "30_0", "30_1", "7_0"},
			links: []string{"0_0-7_0", "17_0-30_0", "17_0-30_1", "7_0-17_0"},
		},
		{
			name:  "CompactFlag",
			args:  []string{"prune", "-", "7_0-25_0", "--compact"},
			nodes: []string{"0_0", "17_0", "30_0", "30_1"},
			links: []string{"0_0-17_0", "17_0-30_0", "17_0-30_1"},
		},
		{
			name:   "CompactFromConfig",
			args:   []string{"prune", "-", "7_0-25_0"},
			config: "[edit]\ncompact = true\n",
			nodes:  []string{"0_0", "17_0", "30_0", "30_1"},
			links:  []string{"0_0-17_0", "17_0-30_0", "17_0-30_1"},
		},
		{
			name:   "FlagOverridesConfig",
			args:   []string{"prune", "-", "7_0-25_0", "--compact=false"},
			config: "[edit]\ncompact = true\n",
			nodes:  []string{"0_0", "17_0", "30_0", "30_1", "7_0"},
			links:  []string{"0_0-7_0", "17_0-30_0", "17_0-30_1", "7_0-17_0"},
		},
		{
			name: "SeveralLinks",
			args: []string{"prune", "-", "25_0-30_2", "25_0-30_3", "17_0-30_1"},
			nodes: []string{
				"0_0", "17_0", "25_0", "30_0", "30_4", "7_0",
			},
			links: []string{"0_0-7_0", "17_0-30_0", "25_0-30_4", "7_0-17_0", "7_0-25_0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.config != "" {
				path := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(path, []byte(tt.config), 0o644); err != nil {
					t.Fatal(err)
				}
				args = append(slices.Clone(args), "--config", path)
			}

			out, _, err := run(t, sampleJSON(t), args...)
			if err != nil {
				t.Fatalf("%v: %v", args, err)
			}
			g := parseOutput(t, out)
			if got := g.NodeIDs(); !slices.Equal(got, tt.nodes) {
				t.Errorf("nodes = %v, want %v", got, tt.nodes)
			}
			if got := g.LinkIDs(); !slices.Equal(got, tt.links) {
				t.Errorf("links = %v, want %v", got, tt.links)
			}
		})
	}
}

func TestPruneCommandAbsentLink(t *testing.T) {
	out, status, err := run(t, sampleJSON(t), "prune", "-", "nope-nada")
	if err != nil {
		t.Fatal(err)
	}
	if g := parseOutput(t, out); g.NodeCount() != 9 {
		t.Errorf("NodeCount() = %d, want 9 (unchanged)", g.NodeCount())
	}
	if !strings.Contains(status, "unchanged") {
		t.Errorf("status = %q, want a warning", status)
	}
}

func TestSimplifyCommand(t *testing.T) {
	out, _, err := run(t, sampleJSON(t), "simplify", "-")
	if err != nil {
		t.Fatal(err)
	}
	g := parseOutput(t, out)
	if !g.HasNode("0_0") || g.NodeCount() != 9 {
		t.Errorf("nodes = %v, want the sample unchanged (no chains)", g.NodeIDs())
	}

	out, _, err = run(t, "", "sample", "--kind", "chain", "-n", "5")
	if err != nil {
		t.Fatal(err)
	}
	out, _, err = run(t, out, "simplify", "-")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := parseOutput(t, out).LinkIDs(), []string{"c0-c4"}; !slices.Equal(got, want) {
		t.Errorf("links = %v, want %v", got, want)
	}
}

func TestLayoutCommand(t *testing.T) {
	doc := `{
  "nodes": [
    {"id": "r", "x": 0, "y": 5},
    {"id": "a", "x": 1, "y": 9},
    {"id": "b", "x": 1, "y": 7}
  ],
  "links": [{"from": "r", "to": "a"}, {"from": "r", "to": "b"}]
}`
	out, _, err := run(t, doc, "layout", "-")
	if err != nil {
		t.Fatal(err)
	}
	g := parseOutput(t, out)
	for id, want := range map[string]float64{"r": 5, "b": 5, "a": 7} {
		if n, _ := g.Node(id); n.Y != want {
			t.Errorf("%s.Y = %v, want %v", id, n.Y, want)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Timeline", []string{"render", "-"}, "<svg"},
		{"TimelineLabels", []string{"render", "-", "--labels", "--highlight", "7_0-25_0"}, "30_4"},
		{"DOT", []string{"render", "-", "-t", "nodelink", "-f", "dot"}, "digraph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, sampleJSON(t), tt.args...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output does not contain %q", tt.want)
			}
		})
	}
}

func TestRenderCommandErrors(t *testing.T) {
	if _, _, err := run(t, sampleJSON(t), "render", "-", "-f", "gif"); !lerrors.Is(err, lerrors.ErrCodeInvalidInput) {
		t.Errorf("unknown format error = %v, want INVALID_INPUT", err)
	}
	if _, _, err := run(t, sampleJSON(t), "render", "-", "-f", "dot"); !lerrors.Is(err, lerrors.ErrCodeUnsupported) {
		t.Errorf("timeline dot error = %v, want UNSUPPORTED", err)
	}
}

func TestRenderCommandToFile(t *testing.T) {
	input := writeSample(t)
	if _, _, err := run(t, "", "render", input); err != nil {
		t.Fatal(err)
	}
	want := strings.TrimSuffix(input, ".json") + ".svg"
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected %s: %v", want, err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Errorf("%s does not start with <svg", want)
	}
}

func TestRenderCache(t *testing.T) {
	cacheHome := t.TempDir()
	in := sampleJSON(t)

	first, _, err := runWithCache(t, cacheHome, in, "render", "-", "--labels")
	if err != nil {
		t.Fatal(err)
	}
	entries, _ := filepath.Glob(filepath.Join(cacheHome, appName, "*", "*.json"))
	if len(entries) != 1 {
		t.Fatalf("cache entries = %d, want 1", len(entries))
	}

	second, _, err := runWithCache(t, cacheHome, in, "render", "-", "--labels")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("cached render differs from the first render")
	}

	if _, _, err := runWithCache(t, cacheHome, in, "render", "-", "--no-cache", "--highlight", "7_0-17_0"); err != nil {
		t.Fatal(err)
	}
	entries, _ = filepath.Glob(filepath.Join(cacheHome, appName, "*", "*.json"))
	if len(entries) != 1 {
		t.Errorf("--no-cache wrote to the cache: %d entries", len(entries))
	}

	out, _, err := runWithCache(t, cacheHome, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(cacheHome, appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	_, status, err := runWithCache(t, cacheHome, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status, "Cleared 1") {
		t.Errorf("status = %q, want one cleared entry", status)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		want                  string
	}{
		{"", "tree.json", "svg", "tree.svg"},
		{"", "dir/tree.yaml", "png", "dir/tree.png"},
		{"", "-", "svg", "-"},
		{"out.pdf", "tree.json", "pdf", "out.pdf"},
		{"-", "tree.json", "svg", "-"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.format, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, "", "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "lineage") {
				t.Errorf("%s completion does not mention lineage", shell)
			}
		})
	}
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nscale = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "", "sample", "--config", path); err == nil {
		t.Error("negative scale should be rejected before the command runs")
	}
}
