// Package sketches provides the probabilistic machinery behind the
// cardinality estimation engine: a HyperLogLog register array plus the
// key-packing and hash-mixing steps that feed it.
package sketches

// CardinalitySketch is the surface the estimation engine needs from a
// cardinality sketch.
type CardinalitySketch interface {
	// Observe folds a well-mixed 64-bit hash into the sketch.
	Observe(hash uint64)

	// Estimate returns the current cardinality estimate.
	Estimate() float64

	// Reset returns the sketch to its empty state.
	Reset()
}

// Ensure implementations satisfy interfaces
var _ CardinalitySketch = (*HyperLogLog)(nil)
