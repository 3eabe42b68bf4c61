// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about structural edits, rendering, and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages never
// import a logging or metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditHooks(&myEditHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	removed := transform.PruneLinkBranch(g, id)
//	observability.Edit().OnPruneComplete(ctx, id, removed, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Edit Hooks
// =============================================================================

// EditHooks receives events from the structural editor and the layout engine.
type EditHooks interface {
	// OnPruneComplete records a branch deletion. nodesRemoved is zero when
	// the link was not present.
	OnPruneComplete(ctx context.Context, linkID string, nodesRemoved int, duration time.Duration)

	// OnSimplifyComplete records a chain compaction pass.
	OnSimplifyComplete(ctx context.Context, collapsed int, duration time.Duration, err error)

	// OnLayoutComplete records a repositioning from root. root is empty for
	// an empty graph.
	OnLayoutComplete(ctx context.Context, root string, nodeCount int, duration time.Duration)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from renderers.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, nodeCount int)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditHooks is a no-op implementation of EditHooks.
type NoopEditHooks struct{}

func (NoopEditHooks) OnPruneComplete(context.Context, string, int, time.Duration)   {}
func (NoopEditHooks) OnSimplifyComplete(context.Context, int, time.Duration, error) {}
func (NoopEditHooks) OnLayoutComplete(context.Context, string, int, time.Duration)  {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editHooks   EditHooks   = NoopEditHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetEditHooks registers custom edit hooks.
// This should be called once at application startup before any edits.
func SetEditHooks(h EditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Edit returns the registered edit hooks.
func Edit() EditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editHooks = NoopEditHooks{}
	renderHooks = NoopRenderHooks{}
	httpHooks = NoopHTTPHooks{}
}
