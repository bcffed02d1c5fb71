package ugen

import "math"

// LeakDC removes DC offset below about 10 Hz.
func LeakDC(in Handle) Handle { return New(new(dcFilter), in) }

type dcFilter struct {
	a, x, y float64
}

func (f *dcFilter) InitAudio(p Params) {
	rc := 1 / (2 * math.Pi * 10)
	f.a = rc / (rc + 1/p.SampleRate)
}

func (f *dcFilter) filter(x float64) float64 {
	f.y = f.a * (f.y + x - f.x)
	f.x = x
	return f.y
}

func (f *dcFilter) Process(c *Context, in [][]float64, out []float64) {
	for i, x := range in[0] {
		out[i] = f.filter(x)
	}
}

// LPF is a second-order Butterworth low-pass filter.  The cutoff is read once
// per block; when it changes the coefficients ramp to their new values across
// the block.
func LPF(in, freq Handle) Handle { return New(&butterworth{}, in, freq) }

// HPF is the high-pass counterpart of LPF.
func HPF(in, freq Handle) Handle { return New(&butterworth{high: true}, in, freq) }

type butterworth struct {
	Params     Params
	high       bool
	freq       float64
	started    bool
	a0, b1, b2 Ramp
	y1, y2     float64
}

// coefficients returns a0, b1 and b2 for cutoff freq.  The filter computes
// y0 = x + b1*y1 + b2*y2 and outputs a0*(y0 ± 2*y1 + y2).
func (f *butterworth) coefficients(freq float64) (a0, b1, b2 float64) {
	nyquist := f.Params.SampleRate / 2
	freq = max(1, min(freq, nyquist*.99))
	w := math.Pi * freq / f.Params.SampleRate
	if f.high {
		c := math.Tan(w)
		a0 = 1 / (1 + math.Sqrt2*c + c*c)
		b1 = 2 * (1 - c*c) * a0
		b2 = -(1 - math.Sqrt2*c + c*c) * a0
		return
	}
	c := 1 / math.Tan(w)
	a0 = 1 / (1 + math.Sqrt2*c + c*c)
	b1 = -2 * (1 - c*c) * a0
	b2 = -(1 - math.Sqrt2*c + c*c) * a0
	return
}

func (f *butterworth) InitAudio(p Params) {
	f.Params = p
	f.started = false
}

func (f *butterworth) Process(c *Context, in [][]float64, out []float64) {
	x, freq := in[0], in[1]
	if len(out) == 0 {
		return
	}
	if v := freq[len(freq)-1]; !f.started || v != f.freq {
		a0, b1, b2 := f.coefficients(v)
		if f.started {
			f.a0.Set(a0, len(out))
			f.b1.Set(b1, len(out))
			f.b2.Set(b2, len(out))
		} else {
			f.a0.Jump(a0)
			f.b1.Jump(b1)
			f.b2.Jump(b2)
			f.started = true
		}
		f.freq = v
	}
	sign := 2.0
	if f.high {
		sign = -2
	}
	for i := range out {
		a0, b1, b2 := f.a0.Next(), f.b1.Next(), f.b2.Next()
		y0 := zapDenormal(x[i] + b1*f.y1 + b2*f.y2)
		out[i] = a0 * (y0 + sign*f.y1 + f.y2)
		f.y2, f.y1 = f.y1, y0
	}
}

func zapDenormal(x float64) float64 {
	if math.Abs(x) < 1e-15 {
		return 0
	}
	return x
}

// Lag smooths in exponentially, reaching -60 dB of a step in time seconds.
func Lag(in Handle, time float64) Handle { return New(&lag{time: time}, in) }

type lag struct {
	time    float64
	coef    float64
	y       float64
	started bool
}

func (l *lag) InitAudio(p Params) {
	if l.time <= 0 {
		l.coef = 0
		return
	}
	l.coef = math.Exp(math.Log(.001) / (l.time * p.SampleRate))
}

func (l *lag) Process(c *Context, in [][]float64, out []float64) {
	x := in[0]
	if !l.started && len(x) > 0 {
		l.y = x[0]
		l.started = true
	}
	for i := range out {
		l.y = x[i] + l.coef*(l.y-x[i])
		out[i] = l.y
	}
}
