package ugen

import "math"

// rms is a running root-mean-square over a fixed window.
type rms struct {
	window float64
	buf    []float64
	i      int
	sum    float64
}

func newRMS(window float64) *rms {
	return &rms{window: window}
}

func (a *rms) InitAudio(p Params) {
	a.buf = make([]float64, max(1, int(p.SampleRate*a.window)))
	a.i, a.sum = 0, 0
}

func (a *rms) add(x float64) {
	a.sum -= a.buf[a.i]
	a.buf[a.i] = x * x
	a.sum += a.buf[a.i]
	a.i = (a.i + 1) % len(a.buf)
}

func (a *rms) amplitude() float64 {
	return math.Sqrt(max(0, a.sum) / float64(len(a.buf)))
}

// Amplitude follows the RMS level of in over a window in seconds.  Read it with
// Handle.Value to drive a meter.
func Amplitude(in Handle, window float64) Handle { return New(&ampMeter{rms: rms{window: window}}, in) }

type ampMeter struct {
	rms rms
}

func (m *ampMeter) InitAudio(p Params) { m.rms.InitAudio(p) }

func (m *ampMeter) Process(c *Context, in [][]float64, out []float64) {
	for i, x := range in[0] {
		m.rms.add(x)
		out[i] = m.rms.amplitude()
	}
}
