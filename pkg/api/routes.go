// Package api exposes the estimation engine over HTTP for collaborators
// that only need insert, estimate, and reset, plus a benchmark endpoint
// that evaluates the engine against SQLite ground truth.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/antimaf/CardinalityEstimation/pkg/estimator"
)

type JSON map[string]any

// Config carries the construction-time estimator parameters.
type Config struct {
	Precision     uint8
	TrackingLimit int
}

// RegisterRoutes wires the estimator endpoints onto r. db backs benchmark
// ground truth and may be nil when benchmarks are not needed.
func RegisterRoutes(r *mux.Router, cfg Config, db *sql.DB) *Handler {
	h := &Handler{
		cfg:    cfg,
		engine: estimator.NewEngine(cfg.Precision, cfg.TrackingLimit),
		db:     db,
	}

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/tuples", h.PostTuples).Methods(http.MethodPost)
	r.HandleFunc("/estimate", h.GetEstimate).Methods(http.MethodGet)
	r.HandleFunc("/reset", h.PostReset).Methods(http.MethodPost)
	r.HandleFunc("/benchmark", h.PostBenchmark).Methods(http.MethodPost)

	return h
}

// Handler owns the served engine. The engine is not safe for concurrent
// use, so every handler takes mu around engine calls.
type Handler struct {
	mu     sync.Mutex
	cfg    Config
	engine *estimator.Engine
	db     *sql.DB
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
