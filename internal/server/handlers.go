package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	lerrors "github.com/matzehuels/lineage/pkg/errors"
	lio "github.com/matzehuels/lineage/pkg/io"
	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/transform"
	"github.com/matzehuels/lineage/pkg/render/timeline"
)

// editResponse is returned by mutating routes.
type editResponse struct {
	Result transform.Result `json:"result"`
	Graph  lio.Document     `json:"graph"`
}

type rootResponse struct {
	Root *string `json:"root"`
}

type healthResponse struct {
	Status  string         `json:"status"`
	Session string         `json:"session"`
	Build   buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Session: s.session,
		Build:   buildinfo.Get(),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var doc lio.Document
	s.withGraph(func(g *lineage.Graph) { doc = lio.FromGraph(g) })
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	var svg []byte
	s.withGraph(func(g *lineage.Graph) { svg = timeline.RenderSVG(g, s.opts.Timeline...) })
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	var resp rootResponse
	s.withGraph(func(g *lineage.Graph) {
		if root, ok := g.Root(); ok {
			resp.Root = &root.ID
		}
	})
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	opts, err := s.editOptions(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var (
		res transform.Result
		doc lio.Document
	)
	s.withGraph(func(g *lineage.Graph) {
		res, err = transform.DeleteLink(r.Context(), g, id, opts)
		doc = lio.FromGraph(g)
	})
	if err != nil {
		s.logger.Error("Delete failed", "link", id, "error", err)
		respondError(w, err)
		return
	}

	if res.Found {
		s.logger.Info("Deleted branch", "link", id, "nodes", res.NodesRemoved, "collapsed", res.ChainsCollapsed)
	} else {
		s.logger.Debug("Link not present", "link", id)
	}
	respondJSON(w, http.StatusOK, editResponse{Result: res, Graph: doc})
}

func (s *Server) handleSimplify(w http.ResponseWriter, r *http.Request) {
	var (
		res transform.Result
		doc lio.Document
		err error
	)
	s.withGraph(func(g *lineage.Graph) {
		res, err = transform.Compact(r.Context(), g)
		doc = lio.FromGraph(g)
	})
	if err != nil {
		s.logger.Error("Simplify failed", "error", err)
		respondError(w, err)
		return
	}
	s.logger.Info("Simplified", "collapsed", res.ChainsCollapsed)
	respondJSON(w, http.StatusOK, editResponse{Result: res, Graph: doc})
}

// editOptions applies the ?compact= query override to the server defaults.
func (s *Server) editOptions(r *http.Request) (transform.Options, error) {
	opts := s.opts.Edit
	if v := r.URL.Query().Get("compact"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "compact=%s", v)
		}
		opts.Compact = b
	}
	return opts, nil
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	respondJSON(w, status, map[string]string{
		"error":   string(lerrors.GetCode(err)),
		"message": lerrors.UserMessage(err),
	})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	code := lerrors.GetCode(err)
	switch {
	case code == lerrors.ErrCodeNotFound, code == lerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == lerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
