package ugen

import "math"

// Limiter is a soft limiter.  The RMS amplitude of the output (averaged over
// the attack time) will approach limit; this means that much of the signal
// will actually exceed the limit.  The output is delayed by the attack time.
func Limiter(in Handle, limit, attack, decay float64) Handle {
	return New(&limiter{limit: limit, attack: attack, decay: decay}, in)
}

type limiter struct {
	limit         float64
	attack, decay float64
	down, up      float64
	amp           float64
	rms           rms
	delay         constDelay
}

func (l *limiter) InitAudio(p Params) {
	l.down = -1 / (l.attack * p.SampleRate)
	l.up = 1 / (l.decay * p.SampleRate)
	l.amp = 0
	l.rms = *newRMS(l.attack)
	l.rms.InitAudio(p)
	l.delay = *newConstDelay(l.attack)
	l.delay.InitAudio(p)
}

func (l *limiter) next(x float64) float64 {
	gain := math.Exp2(l.amp)
	l.rms.add(x)
	if y := l.rms.amplitude() / l.limit; y > 0 && math.Tanh(y)/y < gain {
		l.amp += l.down
	} else if l.amp < 0 {
		l.amp = min(0, l.amp+l.up)
	}
	return gain * l.delay.next(x)
}

func (l *limiter) Process(c *Context, in [][]float64, out []float64) {
	for i, x := range in[0] {
		out[i] = l.next(x)
	}
}

// Saturate is tanh soft clipping.
func Saturate(x float64) float64 { return math.Tanh(x) }

// Distort is a cheaper soft clipper approaching ±1.
func Distort(x float64) float64 {
	y := math.Abs(x) + 1
	y *= y
	return math.Copysign((y-1)/y, x)
}

// SoftClip applies Saturate to every sample of in.
func SoftClip(in Handle) Handle { return Map(in, Saturate) }

// Distortion applies Distort to every sample of in.
func Distortion(in Handle) Handle { return Map(in, Distort) }
