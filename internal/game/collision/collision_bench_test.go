package collision

import (
	"testing"

	"github.com/udisondev/seafall/internal/model"
)

func benchRect() Rect {
	return Rect{
		Center:     model.Vec2{X: 1000, Y: 1000},
		HalfLength: 64,
		HalfBeam:   28,
		Rotation:   0.7,
	}
}

// --- Contains benchmarks ---

// BenchmarkContains_Hit benchmarks the point test for a point on deck.
// Expected: ~10-20ns (Sincos + two compares, zero allocs).
func BenchmarkContains_Hit(b *testing.B) {
	b.ReportAllocs()
	r := benchRect()
	p := model.Vec2{X: 1010, Y: 1010}

	b.ResetTimer()
	for range b.N {
		_ = r.Contains(p)
	}
}

// BenchmarkContains_Miss benchmarks the point test for a far-away point.
// Expected: same cost as a hit, there is no early-out.
func BenchmarkContains_Miss(b *testing.B) {
	b.ReportAllocs()
	r := benchRect()
	p := model.Vec2{X: 5000, Y: 5000}

	b.ResetTimer()
	for range b.N {
		_ = r.Contains(p)
	}
}

// BenchmarkContainsLocal benchmarks the boarding variant that also returns
// the local point.
// Expected: ~10-20ns, identical math to Contains.
func BenchmarkContainsLocal(b *testing.B) {
	b.ReportAllocs()
	r := benchRect()
	p := model.Vec2{X: 1010, Y: 1010}

	b.ResetTimer()
	for range b.N {
		_, _ = r.ContainsLocal(p)
	}
}

// --- ClampLocal benchmarks ---

// BenchmarkClampLocal benchmarks the per-tick rider offset clamp.
// Expected: ~2-5ns (four compares).
func BenchmarkClampLocal(b *testing.B) {
	b.ReportAllocs()
	r := benchRect()
	p := model.Vec2{X: 200, Y: -90}

	b.ResetTimer()
	for range b.N {
		_ = r.ClampLocal(p)
	}
}
