package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/antimaf/CardinalityEstimation/pkg/estimator"
	"github.com/antimaf/CardinalityEstimation/pkg/executor"
	"github.com/antimaf/CardinalityEstimation/pkg/workload"
)

// maxBenchmarkTuples caps benchmark request size so a single request
// cannot pin the scratch database for minutes.
const maxBenchmarkTuples = 5000000

// maxInsertBatch caps one /tuples batch so a single request cannot hold
// the engine mutex arbitrarily long.
const maxInsertBatch = 100000

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, JSON{"status": "ok"})
}

type Tuple struct {
	Field0 int32 `json:"field0"`
	Field1 int32 `json:"field1"`
}

type TuplesRequest struct {
	Tuples []Tuple `json:"tuples"`
}

// PostTuples inserts a batch of records into the served engine.
func (h *Handler) PostTuples(w http.ResponseWriter, r *http.Request) {
	var req TuplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "invalid json"})
		return
	}
	if len(req.Tuples) == 0 {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "tuples required"})
		return
	}
	if len(req.Tuples) > maxInsertBatch {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "batch exceeds insert cap"})
		return
	}

	h.mu.Lock()
	for _, t := range req.Tuples {
		h.engine.Insert(t.Field0, t.Field1)
	}
	mode := h.engine.Mode().String()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, JSON{
		"status":   "ok",
		"inserted": len(req.Tuples),
		"mode":     mode,
	})
}

// GetEstimate returns the current distinct-record estimate.
func (h *Handler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	est := h.engine.Estimate()
	mode := h.engine.Mode().String()
	stdErr := h.engine.StandardError()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, JSON{
		"estimate":  est,
		"mode":      mode,
		"std_error": stdErr,
	})
}

// PostReset returns the served engine to its initial empty state.
func (h *Handler) PostReset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.engine.Reset()
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, JSON{"status": "ok"})
}

// PostBenchmark runs one workload case on a fresh engine against the
// ground-truth store. The served engine is left untouched.
func (h *Handler) PostBenchmark(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, JSON{"error": "benchmark store not configured"})
		return
	}

	var c workload.Case
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "invalid json"})
		return
	}
	if c.Tuples <= 0 {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "tuples must be positive"})
		return
	}
	if c.Tuples > maxBenchmarkTuples {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "tuples exceeds benchmark cap"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	// mu also serializes use of the shared scratch table.
	h.mu.Lock()
	defer h.mu.Unlock()

	eng := estimator.NewEngine(h.cfg.Precision, h.cfg.TrackingLimit)
	rep, err := executor.Run(ctx, h.db, eng, c)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, JSON{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, rep)
}
