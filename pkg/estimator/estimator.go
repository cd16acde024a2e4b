// Package estimator implements the hybrid cardinality estimation engine:
// an exact counting phase over a bounded frequency map that hands off to a
// HyperLogLog sketch once the distinct-key count outgrows the tracking
// limit.
package estimator

import (
	"math"

	"github.com/antimaf/CardinalityEstimation/pkg/sketches"
)

// DefaultTrackingLimit bounds how many distinct keys are counted exactly
// before the engine hands off to the sketch.
const DefaultTrackingLimit = 10000

// Mode reports which phase the engine answers from.
type Mode int

const (
	// ModeExact means estimates come from the exact frequency map.
	ModeExact Mode = iota
	// ModeApproximate means the tracker gave up and estimates come from
	// the sketch. Only Reset leaves this mode.
	ModeApproximate
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeApproximate:
		return "approximate"
	default:
		return "unknown"
	}
}

// Engine estimates the number of distinct (field0, field1) records in a
// stream. Small distinct sets are counted exactly with zero error; past
// the tracking limit the engine switches irreversibly (until Reset) to the
// sketch. The sketch is updated on every insert, so it is already warm
// when the switch happens.
//
// An Engine is not safe for concurrent use. Callers sharing one must
// serialize access externally, or keep one engine per worker and merge
// the sketches non-concurrently.
type Engine struct {
	tracker *exactTracker
	sketch  *sketches.HyperLogLog
}

// NewEngine creates an engine with 2^precision sketch registers and the
// given exact-tracking limit. Out-of-range precisions and non-positive
// limits fall back to the defaults.
func NewEngine(precision uint8, trackingLimit int) *Engine {
	if trackingLimit <= 0 {
		trackingLimit = DefaultTrackingLimit
	}
	return &Engine{
		tracker: newExactTracker(trackingLimit),
		sketch:  sketches.NewHyperLogLog(precision),
	}
}

// Insert adds one record to the estimate. Duplicates are expected; they
// are exactly what cardinality estimation collapses.
func (e *Engine) Insert(field0, field1 int32) {
	key := sketches.CombineFields(field0, field1)
	e.tracker.record(key)
	e.sketch.Observe(sketches.Mix64(key))
}

// Estimate returns the current distinct-record estimate: the exact count
// while the tracker is live, the sketch estimate afterwards. Never returns
// less than 1, even before the first insert.
func (e *Engine) Estimate() float64 {
	if n, ok := e.tracker.count(); ok {
		return math.Max(1, float64(n))
	}
	return e.sketch.Estimate()
}

// Mode reports whether estimates are currently exact or sketch-backed.
func (e *Engine) Mode() Mode {
	if _, ok := e.tracker.count(); ok {
		return ModeExact
	}
	return ModeApproximate
}

// StandardError returns the expected relative error of Estimate: zero
// while exact, the sketch's theoretical standard error afterwards.
func (e *Engine) StandardError() float64 {
	if _, ok := e.tracker.count(); ok {
		return 0
	}
	return e.sketch.StandardError()
}

// Reset returns the engine to its initial empty state. This is the only
// way back to exact mode.
func (e *Engine) Reset() {
	e.tracker.reset()
	e.sketch.Reset()
}
