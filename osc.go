package ugen

import (
	"math"
	"math/cmplx"
)

// Sine returns a sine oscillator with frequency freq in Hz.
func Sine(freq Handle) Handle { return New(new(sineOsc), freq) }

// SineX is Sine at a constant frequency, phase-rotated rather than computed per
// sample.
func SineX(freq float64) Handle { return New(&fixedFreqSineOsc{freq: freq}) }

// Saw returns a naive sawtooth in [-1, 1).
func Saw(freq Handle) Handle { return New(new(sawOsc), freq) }

// Phasor returns a ramp from 0 to 1 repeating at freq.
func Phasor(freq Handle) Handle { return New(new(phasor), freq) }

// Osc reads table as one cycle of a waveform, with linear interpolation.
func Osc(table Samples, freq Handle) Handle { return New(&tableOsc{table: table.Share()}, freq) }

type sineOsc struct {
	Params Params
	phase  float64
}

func (o *sineOsc) Process(c *Context, in [][]float64, out []float64) {
	freq := in[0]
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * o.phase)
		_, o.phase = math.Modf(o.phase + freq[i]/o.Params.SampleRate)
	}
}

type fixedFreqSineOsc struct {
	Params Params
	freq   float64
	x, d   complex128
}

func (o *fixedFreqSineOsc) InitAudio(p Params) {
	o.Params = p
	o.SetFreq(o.freq)
}

func (o *fixedFreqSineOsc) SetFreq(freq float64) {
	o.freq = freq
	if o.x == 0 {
		o.SetPhase(0)
	}
	o.d = cmplx.Exp(complex(0, 2*math.Pi*freq/o.Params.SampleRate))
}

func (o *fixedFreqSineOsc) SetPhase(phase float64) {
	o.x = cmplx.Exp(complex(0, 2*math.Pi*phase))
}

func (o *fixedFreqSineOsc) Process(c *Context, in [][]float64, out []float64) {
	for i := range out {
		out[i] = imag(o.x)
		o.x *= o.d
	}
	// keep |x| from drifting
	o.x /= complex(cmplx.Abs(o.x), 0)
}

type sawOsc struct {
	Params Params
	x      float64
}

func (o *sawOsc) Process(c *Context, in [][]float64, out []float64) {
	freq := in[0]
	for i := range out {
		out[i] = o.x
		o.x += 2 * freq[i] / o.Params.SampleRate
		if o.x >= 1 {
			o.x -= 2
		}
	}
}

type phasor struct {
	Params Params
	phase  float64
}

func (o *phasor) Process(c *Context, in [][]float64, out []float64) {
	freq := in[0]
	for i := range out {
		out[i] = o.phase
		_, o.phase = math.Modf(o.phase + freq[i]/o.Params.SampleRate)
		if o.phase < 0 {
			o.phase++
		}
	}
}

type tableOsc struct {
	Params Params
	table  Samples
	phase  float64
}

func (o *tableOsc) Process(c *Context, in [][]float64, out []float64) {
	t := o.table.Values()
	if len(t) == 0 {
		clear(out)
		return
	}
	n := float64(len(t))
	freq := in[0]
	for i := range out {
		x := o.phase * n
		j := int(x)
		f := x - float64(j)
		out[i] = t[j%len(t)]*(1-f) + t[(j+1)%len(t)]*f
		_, o.phase = math.Modf(o.phase + freq[i]/o.Params.SampleRate)
		if o.phase < 0 {
			o.phase++
		}
	}
}
