// Package httpapi implements the HTTP front end (A3 in SPEC_FULL.md):
// POST /render, POST /preview and GET /healthz, routed with go-chi/chi/v5
// the way the teacher routes its own HTTP services (see
// internal/http/services/owncloud/ocgraph).
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cs3org/papers/internal/model"
)

// Renderer is the subset of *pipeline.Pipeline the HTTP layer depends on.
type Renderer interface {
	Render(ctx context.Context, spec model.DocumentSpec) error
	Preview(ctx context.Context, spec model.DocumentSpec) (string, error)
}

// svc holds the router and its collaborators, mirroring the teacher's
// per-service struct convention (ocgraph.svc, ocdav.svc, ...).
type svc struct {
	log    zerolog.Logger
	render Renderer
	router *chi.Mux
}

// New builds the HTTP front end's router.
func New(log zerolog.Logger, render Renderer) http.Handler {
	s := &svc{log: log, render: render, router: chi.NewRouter()}
	s.routerInit()
	return s.router
}

func (s *svc) routerInit() {
	s.router.Get("/healthz", s.healthz)
	s.router.Post("/render", s.renderHandler)
	s.router.Post("/preview", s.previewHandler)
}

func (s *svc) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// renderHandler decodes a DocumentSpec, validates it, and hands it to the
// pipeline in a new goroutine so the HTTP response is not held open for
// the job's lifetime (spec.md §5: "accepted" means queued, not finished).
// It responds 202 Accepted once the job has been handed off, 400 on a
// malformed or invalid body.
func (s *svc) renderHandler(w http.ResponseWriter, r *http.Request) {
	spec, err := decodeSpec(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The job must outlive the request; it is not cancelled by the
	// client disconnecting.
	ctx := context.Background()
	go func() {
		if err := s.render.Render(ctx, spec); err != nil {
			s.log.Error().Err(err).Msg("render job finished with error")
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}

// previewHandler decodes a DocumentSpec, expands its template synchronously
// and returns the expanded text as the response body (spec.md §4.10).
func (s *svc) previewHandler(w http.ResponseWriter, r *http.Request) {
	spec, err := decodeSpec(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expanded, err := s.render.Preview(r.Context(), spec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(expanded))
}

func decodeSpec(r *http.Request) (model.DocumentSpec, error) {
	var spec model.DocumentSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		return model.DocumentSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return model.DocumentSpec{}, err
	}
	return spec, nil
}
