package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	_ "modernc.org/sqlite"

	"github.com/antimaf/CardinalityEstimation/pkg/api"
	"github.com/antimaf/CardinalityEstimation/pkg/estimator"
	"github.com/antimaf/CardinalityEstimation/pkg/sketches"
)

func main() {
	cfg := api.Config{
		Precision:     uint8(envInt("CARD_PRECISION", sketches.DefaultPrecision)),
		TrackingLimit: envInt("CARD_TRACKING_LIMIT", estimator.DefaultTrackingLimit),
	}

	// Scratch database for benchmark ground truth. In-memory by default;
	// point CARD_DB_PATH at a file to keep it on disk.
	dbPath := os.Getenv("CARD_DB_PATH")
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("failed to open sqlite db: %v", err)
	}
	defer db.Close()
	// One connection so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)

	r := mux.NewRouter()
	api.RegisterRoutes(r, cfg, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("cardinality server listening on http://localhost:%s (precision=%d, tracking_limit=%d)",
		port, cfg.Precision, cfg.TrackingLimit)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", name, err)
	}
	return n
}
