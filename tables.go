package ugen

import (
	"math"
	"math/rand"
)

// Range is Slice under its older name: the elements [start, end), clamped.
func (a Array[T]) Range(start, end int) Array[T] { return a.Slice(start, end) }

func generate(n int, f func(i int) float64) Samples {
	a := WithSize[float64](n)
	d := a.Data()
	for i := range d {
		d[i] = f(i)
	}
	return a
}

// LineTable returns n values from start to end inclusive.
func LineTable(n int, start, end float64) Samples {
	if n == 1 {
		return FromValues(start)
	}
	return generate(n, func(i int) float64 {
		return start + (end-start)*float64(i)/float64(n-1)
	})
}

// Series returns start, start+step, start+2*step, ...
func Series(n int, start, step float64) Samples {
	return generate(n, func(i int) float64 { return start + step*float64(i) })
}

// Geom returns start, start*grow, start*grow², ...
func Geom(n int, start, grow float64) Samples {
	return generate(n, func(i int) float64 { return start * math.Pow(grow, float64(i)) })
}

// RandTable returns n uniform values in [lo, hi).
func RandTable(n int, lo, hi float64, r *rand.Rand) Samples {
	return generate(n, func(int) float64 { return lo + (hi-lo)*r.Float64() })
}

// SineTable returns one cycle of a sine.  The table is periodic: its last
// value is one step before the cycle closes.
func SineTable(n int) Samples {
	return generate(n, func(i int) float64 { return math.Sin(2 * math.Pi * float64(i) / float64(n)) })
}

func CosineTable(n int) Samples {
	return generate(n, func(i int) float64 { return math.Cos(2 * math.Pi * float64(i) / float64(n)) })
}

// The windows below are periodic, so that windows overlapped by half sum to a
// constant.

func HannWindow(n int) Samples {
	return generate(n, func(i int) float64 { return (1 - math.Cos(2*math.Pi*float64(i)/float64(n))) / 2 })
}

func HammingWindow(n int) Samples {
	return generate(n, func(i int) float64 { return .54 - .46*math.Cos(2*math.Pi*float64(i)/float64(n)) })
}

func BlackmanWindow(n int) Samples {
	return generate(n, func(i int) float64 {
		x := 2 * math.Pi * float64(i) / float64(n)
		return .42 - .5*math.Cos(x) + .08*math.Cos(2*x)
	})
}

// CosineWindow is the first half cycle of a sine.
func CosineWindow(n int) Samples {
	return generate(n, func(i int) float64 { return math.Sin(math.Pi * float64(i) / float64(n)) })
}

// BartlettWindow is a triangle that is zero at both ends.
func BartlettWindow(n int) Samples {
	return generate(n, func(i int) float64 { return 1 - math.Abs(2*float64(i)/float64(n)-1) })
}

// TriangleWindow is a triangle that doesn't reach zero at the ends.
func TriangleWindow(n int) Samples {
	return generate(n, func(i int) float64 { return 1 - math.Abs(2*(float64(i)+.5)/float64(n)-1) })
}
