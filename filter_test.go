package ugen

import (
	"math"
	"testing"
)

func TestLPFPassesDCAndBlocksNyquist(t *testing.T) {
	p := Params{SampleRate: 1000, BlockSize: 100}

	dc := render(LPF(C(1), C(50)), p, 10)[0]
	if got := dc[len(dc)-1]; math.Abs(got-1) > 1e-6 {
		t.Errorf("DC gain: got %v, want 1", got)
	}

	nyq := render(LPF(Osc(FromValues(1., -1), C(500)), C(20)), p, 10)[0]
	peak := 0.0
	for _, x := range nyq[len(nyq)-100:] {
		peak = max(peak, math.Abs(x))
	}
	if peak > .01 {
		t.Errorf("got peak %v above cutoff", peak)
	}
}

func TestHPFBlocksDC(t *testing.T) {
	p := Params{SampleRate: 1000, BlockSize: 100}
	out := render(HPF(C(1), C(50)), p, 10)[0]
	if got := out[len(out)-1]; math.Abs(got) > 1e-6 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestButterworthCoefficientRamp(t *testing.T) {
	p := Params{SampleRate: 1000, BlockSize: 8}
	freq := NewParam(100)
	h := LPF(C(0), freq.Handle())
	f := h.Node(0).Kernel().(*butterworth)

	c := NewContext(p)
	c.Begin(1, 8)
	Evaluate(h, c)
	old, _, _ := f.coefficients(100)
	if f.a0.Value != old {
		t.Fatalf("first block: got a0 %v, want %v with no ramp", f.a0.Value, old)
	}

	// The Param itself ramps to 200 across block 2, and the filter reads its
	// last sample.
	freq.Set(200)
	c.Begin(2, 8)
	Evaluate(h, c)
	want, _, _ := f.coefficients(200)
	if f.a0.Value != want {
		t.Fatalf("got a0 %v at end of block, want %v", f.a0.Value, want)
	}
}

func TestRampReachesTargetOnLastStep(t *testing.T) {
	var r Ramp
	r.Jump(1)
	r.Set(3, 4)
	var got []float64
	for i := 0; i < 6; i++ {
		got = append(got, r.Next())
	}
	want := []float64{1.5, 2, 2.5, 3, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLeakDC(t *testing.T) {
	out := render(LeakDC(C(1)), Params{SampleRate: 1000, BlockSize: 500}, 4)[0]
	if got := out[len(out)-1]; math.Abs(got) > 1e-3 {
		t.Errorf("got %v, want ~0", got)
	}
}

func TestLag(t *testing.T) {
	p := Params{SampleRate: 1000, BlockSize: 100}
	step, _ := Control(ControlPoint{.01, 0}, ControlPoint{.01, 1}, ControlPoint{10, 1})
	out := render(Lag(step, .1), p, 2)[0]
	if out[10] >= .5 {
		t.Errorf("got %v just after the step, want a slow rise", out[10])
	}
	if got := out[109]; math.Abs(got-(1-.001)) > 1e-3 {
		t.Errorf("after lag time: got %v, want ~.999", got)
	}
}

func BenchmarkLPF(b *testing.B) {
	benchmarkHandle(b, LPF(Saw(C(100)), C(1234)))
}
