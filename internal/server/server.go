// Package server exposes one lineage tree over HTTP.
//
// The server owns a single graph and serializes every request that reads or
// mutates it, so a deletion is never interleaved with a render or another
// deletion. Routes:
//
//	GET    /                the tree as an interactive timeline page
//	GET    /graph           the tree as a JSON document
//	GET    /graph.svg       the tree as a timeline SVG
//	GET    /graph/root      the current root
//	DELETE /links/{id}      prune the branch below a link
//	POST   /simplify        collapse single-child chains
//	GET    /healthz         liveness and build info
//
// Every response carries the X-Lineage-Session header, a UUID that changes
// whenever the server restarts, so a client can detect that its view of the
// tree is stale.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/transform"
	"github.com/matzehuels/lineage/pkg/render/timeline"
)

// SessionHeader names the response header carrying the session ID.
const SessionHeader = "X-Lineage-Session"

const shutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	// Edit is applied to every deletion unless the request overrides
	// compaction with ?compact=true|false.
	Edit transform.Options

	// Timeline configures the SVG served at /graph.svg and /.
	Timeline []timeline.Option

	// Logger defaults to the charmbracelet/log default logger.
	Logger *log.Logger
}

// Server serves a single lineage tree.
type Server struct {
	mu      sync.Mutex
	graph   *lineage.Graph
	opts    Options
	logger  *log.Logger
	session string
	router  chi.Router
}

// New creates a server for g. The server takes ownership of g; callers must
// not touch it afterwards. If the graph metadata has no "graph_id", a fresh
// UUID is stored there.
func New(g *lineage.Graph, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if _, ok := g.Meta()["graph_id"]; !ok {
		g.Meta()["graph_id"] = uuid.NewString()
	}

	s := &Server{
		graph:   g,
		opts:    opts,
		logger:  opts.Logger,
		session: uuid.NewString(),
	}
	s.router = s.routes()
	return s
}

// Session returns the session ID sent in [SessionHeader].
func (s *Server) Session() string { return s.session }

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withSession)
	r.Use(observe)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/graph.svg", s.handleSVG)
	r.Get("/graph/root", s.handleRoot)
	r.Delete("/links/{id}", s.handleDeleteLink)
	r.Post("/simplify", s.handleSimplify)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving lineage tree", "addr", addr, "session", s.session)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// withGraph runs fn while holding the graph lock.
func (s *Server) withGraph(fn func(g *lineage.Graph)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.graph)
}
