package estimator

import (
	"testing"

	"github.com/antimaf/CardinalityEstimation/pkg/sketches"
)

func BenchmarkInsert_ExactPhase(b *testing.B) {
	eng := NewEngine(sketches.DefaultPrecision, DefaultTrackingLimit)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := int32(i % 5000)
		eng.Insert(k, k)
	}
}

func BenchmarkInsert_SketchPhase(b *testing.B) {
	eng := NewEngine(sketches.DefaultPrecision, 100)
	for i := 0; i < 200; i++ {
		eng.Insert(int32(i), int32(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.Insert(int32(i), int32(i>>8))
	}
}

func BenchmarkEstimate_Sketch(b *testing.B) {
	eng := NewEngine(sketches.DefaultPrecision, 100)
	for i := 0; i < 100000; i++ {
		eng.Insert(int32(i), int32(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = eng.Estimate()
	}
}
