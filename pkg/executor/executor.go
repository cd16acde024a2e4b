// Package executor runs workload cases through the estimation engine and
// a SQLite ground-truth table side by side, reporting estimate accuracy
// against the exact distinct count.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/antimaf/CardinalityEstimation/pkg/estimator"
	"github.com/antimaf/CardinalityEstimation/pkg/workload"
)

// Report summarizes one case: the exact distinct-pair count from SQL next
// to the engine's estimate.
type Report struct {
	Case            string        `json:"case"`
	Tuples          int           `json:"tuples"`
	TrueCardinality int64         `json:"true_cardinality"`
	Estimate        float64       `json:"estimate"`
	RelativeError   float64       `json:"relative_error"`
	Mode            string        `json:"mode"`
	LoadDuration    time.Duration `json:"load_duration_ns"`
}

// Run resets the engine, streams the case into both the engine and a
// scratch SQLite table, and compares the estimate with the true distinct
// count. The scratch table is rebuilt on every run.
func Run(ctx context.Context, db *sql.DB, eng *estimator.Engine, c workload.Case) (*Report, error) {
	gen, err := c.Generator()
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS tuples`); err != nil {
		return nil, fmt.Errorf("drop tuples: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE tuples (
        field0 INTEGER NOT NULL,
        field1 INTEGER NOT NULL
    )`); err != nil {
		return nil, fmt.Errorf("create tuples: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tuples(field0, field1) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	eng.Reset()
	start := time.Now()
	for i := 0; i < c.Tuples; i++ {
		f0, f1 := gen()
		eng.Insert(f0, f1)
		if _, err := stmt.ExecContext(ctx, f0, f1); err != nil {
			return nil, fmt.Errorf("insert tuple %d: %w", i, err)
		}
	}
	loadDuration := time.Since(start)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	truth, err := TrueCardinality(ctx, db)
	if err != nil {
		return nil, err
	}

	est := eng.Estimate()
	relErr := 0.0
	if truth > 0 {
		relErr = math.Abs(est-float64(truth)) / float64(truth)
	}

	return &Report{
		Case:            c.Name,
		Tuples:          c.Tuples,
		TrueCardinality: truth,
		Estimate:        est,
		RelativeError:   relErr,
		Mode:            eng.Mode().String(),
		LoadDuration:    loadDuration,
	}, nil
}

// TrueCardinality returns the exact distinct (field0, field1) count in the
// scratch table.
func TrueCardinality(ctx context.Context, db *sql.DB) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (SELECT DISTINCT field0, field1 FROM tuples)`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count distinct: %w", err)
	}
	return n, nil
}
