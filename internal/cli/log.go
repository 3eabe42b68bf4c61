package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Pruned 7_0-25_0 (1ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports edit, render and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetEditHooks(h)
	observability.SetRenderHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnPruneComplete(_ context.Context, linkID string, nodesRemoved int, d time.Duration) {
	h.logger.Debug("prune", "link", linkID, "removed", nodesRemoved, "took", d)
}

func (h logHooks) OnSimplifyComplete(_ context.Context, collapsed int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("simplify", "collapsed", collapsed, "error", err)
		return
	}
	h.logger.Debug("simplify", "collapsed", collapsed, "took", d)
}

func (h logHooks) OnLayoutComplete(_ context.Context, root string, nodeCount int, d time.Duration) {
	h.logger.Debug("layout", "root", root, "nodes", nodeCount, "took", d)
}

func (h logHooks) OnRenderStart(_ context.Context, format string, nodeCount int) {
	h.logger.Debug("render start", "format", format, "nodes", nodeCount)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render", "format", format, "error", err)
		return
	}
	h.logger.Debug("render", "format", format, "bytes", size, "took", d)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}
