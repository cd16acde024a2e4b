package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/antimaf/CardinalityEstimation/pkg/estimator"
	"github.com/antimaf/CardinalityEstimation/pkg/executor"
	"github.com/antimaf/CardinalityEstimation/pkg/sketches"
	"github.com/antimaf/CardinalityEstimation/pkg/workload"
)

func main() {
	suitePath := flag.String("suite", "", "YAML workload suite (default: built-in cases)")
	precision := flag.Int("precision", sketches.DefaultPrecision, "sketch precision p (registers = 2^p)")
	limit := flag.Int("tracking-limit", estimator.DefaultTrackingLimit, "distinct keys tracked exactly before sketch handoff")
	flag.Parse()

	suite := workload.DefaultSuite()
	if *suitePath != "" {
		var err error
		suite, err = workload.LoadSuite(*suitePath)
		if err != nil {
			log.Fatalf("load suite: %v", err)
		}
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()
	// One connection so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)

	eng := estimator.NewEngine(uint8(*precision), *limit)
	ctx := context.Background()

	fmt.Printf("%-20s %12s %12s %12s %10s %14s %12s\n",
		"case", "tuples", "true", "estimated", "error", "mode", "load")
	for _, c := range suite.Cases {
		rep, err := executor.Run(ctx, db, eng, c)
		if err != nil {
			log.Fatalf("case %s: %v", c.Name, err)
		}
		fmt.Printf("%-20s %12d %12d %12d %9.3f%% %14s %12s\n",
			rep.Case, rep.Tuples, rep.TrueCardinality, int64(rep.Estimate),
			rep.RelativeError*100, rep.Mode, rep.LoadDuration.Round(time.Millisecond))
	}
}
