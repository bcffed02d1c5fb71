package ugen

import (
	"math"
	"math/rand"
	"testing"
)

func TestLimiterHoldsRMSNearLimit(t *testing.T) {
	p := Params{SampleRate: 1000, BlockSize: 100}
	out := render(Limiter(Sine(C(50)).MulX(4), .5, .01, .1), p, 20)[0]
	var sum float64
	tail := out[len(out)-200:]
	for _, x := range tail {
		sum += x * x
	}
	if rms := math.Sqrt(sum / float64(len(tail))); rms > .8 {
		t.Errorf("got rms %v, want near .5", rms)
	}
}

func TestDistort(t *testing.T) {
	for _, x := range []float64{-100, -1, -.1, 0, .1, 1, 100} {
		y := Distort(x)
		if math.Abs(y) >= 1 || math.Signbit(y) != math.Signbit(x) {
			t.Errorf("Distort(%v) = %v", x, y)
		}
	}
}

func BenchmarkSaturate(b *testing.B) {
	x := make([]float64, 1024)
	for i := range x {
		x[i] = 8*rand.Float64() - 4
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Saturate(x[i&1023])
	}
}
