// Package ugentest provides kernels and helpers for testing unit generator
// graphs.
package ugentest

import (
	"math"
	"testing"

	"github.com/gordonklaus/ugen"
)

// Counter outputs Value plus the sum of its inputs and counts how often it has
// processed a block.
type Counter struct {
	Value float64
	Calls int
}

func (k *Counter) Process(c *ugen.Context, in [][]float64, out []float64) {
	k.Calls++
	for i := range out {
		out[i] = k.Value
		for _, x := range in {
			out[i] += x[i]
		}
	}
}

// Finite outputs 1 and is done after Blocks blocks, or Blocks blocks after it
// is released if Blocks is negative.  Released records Release calls.
type Finite struct {
	Blocks   int
	Released int
	n        int
}

func (k *Finite) Release() { k.Released++ }

func (k *Finite) Process(c *ugen.Context, in [][]float64, out []float64) {
	for i := range out {
		out[i] = 1
	}
	if k.Blocks >= 0 || k.Released > 0 {
		k.n++
	}
}

func (k *Finite) Done() bool { return k.n >= max(k.Blocks, -k.Blocks) }

// Near fails t if got and want differ by more than tol anywhere.
func Near[T float32 | float64](t testing.TB, got, want []T, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// Fill returns n copies of x.
func Fill[T float32 | float64](n int, x T) []T {
	s := make([]T, n)
	for i := range s {
		s[i] = x
	}
	return s
}

// Engine returns an engine for tests, closed when the test ends.
func Engine(t testing.TB, cfg ugen.Config) *ugen.Engine {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = Logger(t)
	}
	e, err := ugen.NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

// Render calls e.RenderBlock once and returns the interleaved output.
func Render(e *ugen.Engine, frames, channels int) []float32 {
	out := make([]float32, frames*channels)
	e.RenderBlock(out, frames, channels)
	return out
}
