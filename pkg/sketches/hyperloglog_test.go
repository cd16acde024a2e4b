package sketches

import (
	"math"
	"testing"
)

// relativeError calculates the relative error between got and want.
func relativeError(got, want float64) float64 {
	return math.Abs(got-want) / want
}

func TestHyperLogLog_EmptySketchEstimatesOne(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	if est := hll.Estimate(); est != 1.0 {
		t.Errorf("empty sketch estimate = %v, want 1.0", est)
	}
}

func TestHyperLogLog_PrecisionFallback(t *testing.T) {
	for _, p := range []uint8{0, 3, 17, 200} {
		if hll := NewHyperLogLog(p); hll.Precision() != DefaultPrecision {
			t.Errorf("NewHyperLogLog(%d).Precision() = %d, want %d", p, hll.Precision(), DefaultPrecision)
		}
	}
	if hll := NewHyperLogLog(10); hll.Precision() != 10 {
		t.Errorf("NewHyperLogLog(10).Precision() = %d, want 10", hll.Precision())
	}
}

func TestHyperLogLog_AlphaConstants(t *testing.T) {
	cases := []struct {
		p    uint8
		want float64
	}{
		{4, 0.673},
		{5, 0.697},
		{6, 0.709},
	}
	for _, c := range cases {
		if got := alphaFor(c.p, 1<<c.p); got != c.want {
			t.Errorf("alphaFor(%d) = %v, want %v", c.p, got, c.want)
		}
	}

	m := uint32(1) << 14
	want := 0.7213 / (1 + 1.079/float64(m))
	if got := alphaFor(14, m); got != want {
		t.Errorf("alphaFor(14) = %v, want %v", got, want)
	}
}

func TestHyperLogLog_RankCappedAtRemainderWidth(t *testing.T) {
	hll := NewHyperLogLog(14)
	// A zero hash has no set bits in the remainder; the forced bit at
	// position 64-p caps the rank at 50 for p=14.
	hll.Observe(0)
	if got := hll.registers[0]; got != 50 {
		t.Errorf("register 0 = %d, want 50", got)
	}
}

func TestHyperLogLog_RegistersMonotone(t *testing.T) {
	hll := NewHyperLogLog(8)
	prev := make([]uint8, len(hll.registers))
	for i := 0; i < 5000; i++ {
		hll.Observe(Mix64(uint64(i)))
		for j, r := range hll.registers {
			if r < prev[j] {
				t.Fatalf("register %d decreased from %d to %d after observation %d", j, prev[j], r, i)
			}
			prev[j] = r
		}
	}
}

func TestHyperLogLog_DuplicateObservationsCollapse(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	h := Mix64(CombineFields(42, 42))
	for i := 0; i < 1000; i++ {
		hll.Observe(h)
	}
	est := hll.Estimate()
	if est < 1.0 || est > 2.0 {
		t.Errorf("estimate after duplicate observations = %v, want ~1", est)
	}
}

func TestHyperLogLog_LinearCountingSmallRange(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	const n = 1000
	for i := 0; i < n; i++ {
		hll.Observe(Mix64(uint64(i)))
	}
	if err := relativeError(hll.Estimate(), n); err > 0.03 {
		t.Errorf("small-range estimate = %v, want within 3%% of %d (error %.2f%%)",
			hll.Estimate(), n, err*100)
	}
}

func TestHyperLogLog_AccuracyOnDistinctKeys(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	const n = 100000
	for i := 0; i < n; i++ {
		hll.Observe(Mix64(uint64(i)))
	}
	if err := relativeError(hll.Estimate(), n); err > 0.05 {
		t.Errorf("estimate = %v, want within 5%% of %d (error %.2f%%)",
			hll.Estimate(), n, err*100)
	}
}

func TestHyperLogLog_Merge(t *testing.T) {
	a := NewHyperLogLog(DefaultPrecision)
	b := NewHyperLogLog(DefaultPrecision)
	const half = 50000
	for i := 0; i < half; i++ {
		a.Observe(Mix64(uint64(i)))
		b.Observe(Mix64(uint64(half + i)))
	}

	if err := a.Merge(b); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if err := relativeError(a.Estimate(), 2*half); err > 0.05 {
		t.Errorf("merged estimate = %v, want within 5%% of %d", a.Estimate(), 2*half)
	}
}

func TestHyperLogLog_MergeRejectsMismatchedPrecision(t *testing.T) {
	a := NewHyperLogLog(12)
	b := NewHyperLogLog(14)
	if err := a.Merge(b); err == nil {
		t.Error("merging sketches with different precision should fail")
	}
}

func TestHyperLogLog_SmallRangeGuardWithoutZeroRegisters(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	for i := range hll.registers {
		hll.registers[i] = 1
	}

	// All registers at rank 1: the raw estimate (2*alpha*m) stays under
	// the 5m magnitude guard, but with no zero registers linear counting
	// cannot apply and the raw estimate passes through unchanged.
	m := float64(hll.m)
	want := hll.alpha * m * m / (m / 2)
	if want > 5*m {
		t.Fatalf("raw estimate %g does not stay under the small-range guard", want)
	}
	if est := hll.Estimate(); est != want {
		t.Errorf("estimate = %v, want raw %v when no registers are zero", est, want)
	}
}

func TestHyperLogLog_LargeRangeTakesSmallerEstimate(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	for i := range hll.registers {
		hll.registers[i] = 14
	}

	// Raw estimate alpha*m*2^14 (~1.9e8) is past the 2^32/30 guard; the
	// harmonic alternative m^2/(sum(2^reg)/m) collapses to m^2/2^14 = m
	// and wins the min.
	m := float64(hll.m)
	raw := hll.alpha * m * math.Pow(2, 14)
	if raw <= (1<<32)/30.0 {
		t.Fatalf("raw estimate %g does not reach the large-range guard", raw)
	}
	if est := hll.Estimate(); est != m {
		t.Errorf("estimate = %v, want the smaller harmonic alternative %v", est, m)
	}
}

func TestHyperLogLog_LargeRangeFloorsAtOne(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	for i := range hll.registers {
		hll.registers[i] = 32
	}

	// Saturated registers push the raw estimate to ~5e13 while the
	// harmonic alternative m^2/2^32 drops below 1; the min picks the
	// alternative and the clamp floors the result.
	m := float64(hll.m)
	raw := hll.alpha * m * math.Pow(2, 32)
	if raw <= (1<<32)/30.0 {
		t.Fatalf("raw estimate %g does not reach the large-range guard", raw)
	}
	if alt := m * m / math.Pow(2, 32); alt >= 1 {
		t.Fatalf("harmonic alternative %g does not exercise the clamp", alt)
	}
	if est := hll.Estimate(); est != 1.0 {
		t.Errorf("estimate = %v, want 1.0 (harmonic alternative then clamp)", est)
	}
}

func TestHyperLogLog_Reset(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	for i := 0; i < 10000; i++ {
		hll.Observe(Mix64(uint64(i)))
	}
	hll.Reset()

	for i, r := range hll.registers {
		if r != 0 {
			t.Fatalf("register %d = %d after reset, want 0", i, r)
		}
	}
	if est := hll.Estimate(); est != 1.0 {
		t.Errorf("estimate after reset = %v, want 1.0", est)
	}
}

func TestHyperLogLog_StandardError(t *testing.T) {
	hll := NewHyperLogLog(DefaultPrecision)
	want := 1.04 / math.Sqrt(16384)
	if got := hll.StandardError(); math.Abs(got-want) > 1e-12 {
		t.Errorf("StandardError() = %v, want %v", got, want)
	}
}
