// Package inspect serves the metadata of a model catalog over HTTP.
//
//	GET /models          JSON list of sqlrow.Meta, in registration order
//	GET /models/{table}  one sqlrow.Meta
//	GET /metrics         Prometheus exposition
//
// Mount the returned router wherever tooling expects it:
//
//	r.Mount("/debug/tablemap", inspect.NewHandler(catalog, log))
package inspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tablemap/sqlrow"
)

// Option configures NewHandler.
type Option func(*handler)

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *handler) { h.gatherer = g }
}

type handler struct {
	catalog  *sqlrow.Catalog
	log      *zap.SugaredLogger
	gatherer prometheus.Gatherer
}

// NewHandler returns a router over catalog. log may be nil.
func NewHandler(catalog *sqlrow.Catalog, log *zap.SugaredLogger, opts ...Option) chi.Router {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	h := &handler{catalog: catalog, log: log, gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Get("/models", h.listModels)
	r.Get("/models/{table}", h.getModel)
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	return r
}

func (h *handler) listModels(w http.ResponseWriter, _ *http.Request) {
	models := h.catalog.Models()

	metas := make([]sqlrow.Meta, 0, len(models))
	for _, m := range models {
		metas = append(metas, m.Meta())
	}

	h.writeJSON(w, http.StatusOK, metas)
}

func (h *handler) getModel(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	m, ok := h.catalog.Lookup(table)
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown table " + table})
		return
	}

	h.writeJSON(w, http.StatusOK, m.Meta())
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warnw("inspect: writing response", "err", err)
	}
}
