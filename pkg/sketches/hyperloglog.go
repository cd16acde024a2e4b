package sketches

import (
	"fmt"
	"math"
	"math/bits"
)

// DefaultPrecision is the register-selection width used when a requested
// precision is out of range. 2^14 registers keep the expected relative
// error near 0.8% (1.04/sqrt(16384)) in about 16KB of memory.
const DefaultPrecision = 14

// HyperLogLog implements the HyperLogLog algorithm for cardinality
// estimation over pre-hashed 64-bit keys. The register array is allocated
// once at construction and never resized; register values only grow until
// Reset.
type HyperLogLog struct {
	registers []uint8
	p         uint8   // bits used for register selection (m = 2^p)
	m         uint32  // number of registers
	alpha     float64 // bias correction constant
}

// NewHyperLogLog creates a new HyperLogLog with 2^p registers.
// Precisions outside [4, 16] fall back to DefaultPrecision.
func NewHyperLogLog(p uint8) *HyperLogLog {
	if p < 4 || p > 16 {
		p = DefaultPrecision
	}
	m := uint32(1) << p
	return &HyperLogLog{
		registers: make([]uint8, m),
		p:         p,
		m:         m,
		alpha:     alphaFor(p, m),
	}
}

// alphaFor returns the bias correction constant for 2^p registers. The
// fixed literals for small register counts come from Flajolet et al.
func alphaFor(p uint8, m uint32) float64 {
	switch p {
	case 4:
		return 0.673
	case 5:
		return 0.697
	case 6:
		return 0.709
	default:
		return 0.7213 / (1 + 1.079/float64(m))
	}
}

// Precision returns p, the register-selection width.
func (hll *HyperLogLog) Precision() uint8 {
	return hll.p
}

// Observe folds a well-mixed 64-bit hash into the register array. The top
// p bits select a register; the rank is the position of the lowest set bit
// in the remaining bits, counted from 1 and capped at 64-p. The register
// keeps the maximum rank seen.
func (hll *HyperLogLog) Observe(hash uint64) {
	idx := hash >> (64 - hll.p)
	rank := uint8(1 + bits.TrailingZeros64(hash|1<<(64-hll.p)))
	if limit := 64 - hll.p; rank > limit {
		rank = limit
	}
	if rank > hll.registers[idx] {
		hll.registers[idx] = rank
	}
}

// Estimate returns the bias-corrected cardinality estimate, never below 1.
func (hll *HyperLogLog) Estimate() float64 {
	sum := 0.0      // sum of 2^-register
	harmonic := 0.0 // sum of 2^register
	zeros := 0
	for _, r := range hll.registers {
		inv := math.Pow(2, -float64(r))
		sum += inv
		harmonic += 1 / inv
		if r == 0 {
			zeros++
		}
	}

	m := float64(hll.m)
	estimate := hll.alpha * m * m / sum

	// Small-range correction. The magnitude guard runs before the
	// zero-register check; swapping them changes boundary behavior.
	if estimate <= 5*m {
		if zeros > 0 {
			estimate = m * math.Log(m/float64(zeros))
		}
	} else if estimate > (1<<32)/30.0 {
		// Large-range correction: harmonic-mean alternative, keep the
		// smaller of the two.
		harmonicEstimate := m * m / (harmonic / m)
		estimate = math.Min(estimate, harmonicEstimate)
	}

	return math.Max(1, estimate)
}

// Merge folds another sketch into this one by taking per-register maxima.
// Both sketches must use the same precision.
func (hll *HyperLogLog) Merge(other *HyperLogLog) error {
	if hll.p != other.p {
		return fmt.Errorf("cannot merge sketches with different precision: %d vs %d", hll.p, other.p)
	}
	for i, r := range other.registers {
		if r > hll.registers[i] {
			hll.registers[i] = r
		}
	}
	return nil
}

// StandardError returns the theoretical relative standard error for this
// register count.
func (hll *HyperLogLog) StandardError() float64 {
	return 1.04 / math.Sqrt(float64(hll.m))
}

// Reset zeroes every register in place.
func (hll *HyperLogLog) Reset() {
	for i := range hll.registers {
		hll.registers[i] = 0
	}
}
