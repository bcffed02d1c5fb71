package ugen

import (
	"fmt"
	"math"

	"github.com/ktye/fft"
)

// spectral runs a filter over the spectrum of two half-overlapped, Hann
// windowed FFT frames.  Output lags input by size samples.
type spectral struct {
	buf   [2]fftBuffer
	fft   fft.FFT
	scale float64
	filt  func([]complex128)
	env   []float64
}

type fftBuffer struct {
	buf []complex128
	i   int
}

func newFFT(size int) (fft.FFT, float64, error) {
	f, err := fft.New(size)
	if err != nil {
		return f, 0, fmt.Errorf("fft size %d: %w", size, err)
	}
	// Find the round trip gain once so both normalization conventions work.
	x := make([]complex128, size)
	x[0] = 1
	x = f.Inverse(f.Transform(x))
	scale := 1 / real(x[0])
	return f, scale, nil
}

func newSpectral(size int, filter func([]complex128)) (*spectral, error) {
	f, scale, err := newFFT(size)
	if err != nil {
		return nil, err
	}
	return &spectral{
		buf: [2]fftBuffer{
			{buf: make([]complex128, size)},
			{buf: make([]complex128, size), i: size / 2},
		},
		fft:   f,
		scale: scale,
		filt:  filter,
		env:   HannWindow(size).Values(),
	}, nil
}

func (f *spectral) filter(x float64) float64 {
	return f.filterBuf(x, 0) + f.filterBuf(x, 1)
}

func (f *spectral) filterBuf(x float64, buf int) float64 {
	b := &f.buf[buf]
	y := real(b.buf[b.i]) * f.scale * f.env[b.i]
	b.buf[b.i] = complex(x, 0)
	b.i++
	if b.i == len(b.buf) {
		b.i = 0
		b.buf = f.fft.Transform(b.buf)
		f.filt(b.buf)
		b.buf = f.fft.Inverse(b.buf)
	}
	return y
}

// SpectralFilter passes in through filter, which is called with the spectrum
// of each frame of size samples (a power of two) and may modify it in place.
// Frames overlap by half.  Filter runs on the render goroutine.
func SpectralFilter(in Handle, size int, filter func(bins []complex128)) Handle {
	return New(&spectralFilter{size: size, f: filter}, in)
}

type spectralFilter struct {
	size int
	f    func([]complex128)
	s    *spectral
	err  error
}

func (k *spectralFilter) InitAudio(p Params) {
	k.s, k.err = newSpectral(k.size, k.f)
}

func (k *spectralFilter) Process(c *Context, in [][]float64, out []float64) {
	if k.err != nil {
		clear(out)
		return
	}
	for i, x := range in[0] {
		out[i] = k.s.filter(x)
	}
}

// Convolve convolves in with the impulse response ir by FFT overlap-add.
// Output lags input by ConvolveLatency(ir.Len()) samples.
func Convolve(in Handle, ir Samples) Handle {
	return New(&convolver{ir: ir.Share()}, in)
}

// ConvolveLatency is the delay Convolve adds for an impulse response of n
// samples.
func ConvolveLatency(n int) int {
	h := 64
	for h < n {
		h *= 2
	}
	return h
}

type convolver struct {
	ir   Samples
	hop  int
	fft  fft.FFT
	resp []complex128
	in   []float64
	out  []float64
	tail []float64
	buf  []complex128
	pos  int
	err  error
}

func (k *convolver) InitAudio(p Params) {
	k.hop = ConvolveLatency(k.ir.Len())
	n := 2 * k.hop
	var scale float64
	k.fft, scale, k.err = newFFT(n)
	if k.err != nil {
		return
	}
	k.resp = make([]complex128, n)
	for i, x := range k.ir.Values() {
		k.resp[i] = complex(x*scale, 0)
	}
	k.resp = k.fft.Transform(k.resp)
	k.in = make([]float64, k.hop)
	k.out = make([]float64, k.hop)
	k.tail = make([]float64, k.hop)
	k.buf = make([]complex128, n)
	k.pos = 0
}

func (k *convolver) Process(c *Context, in [][]float64, out []float64) {
	if k.err != nil {
		clear(out)
		return
	}
	for i, x := range in[0] {
		out[i] = k.out[k.pos]
		k.in[k.pos] = x
		k.pos++
		if k.pos == k.hop {
			k.pos = 0
			k.frame()
		}
	}
}

func (k *convolver) frame() {
	for i := range k.buf {
		k.buf[i] = 0
	}
	for i, x := range k.in {
		k.buf[i] = complex(x, 0)
	}
	k.buf = k.fft.Transform(k.buf)
	for i := range k.buf {
		k.buf[i] *= k.resp[i]
	}
	k.buf = k.fft.Inverse(k.buf)
	for i := range k.out {
		k.out[i] = real(k.buf[i]) + k.tail[i]
		k.tail[i] = real(k.buf[i+k.hop])
	}
}

// Magnitude returns the magnitude of each bin.
func Magnitude(bins []complex128, mag []float64) []float64 {
	mag = mag[:0]
	for _, b := range bins {
		mag = append(mag, math.Hypot(real(b), imag(b)))
	}
	return mag
}
