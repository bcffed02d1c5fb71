package ugen

import (
	"math"
	"math/rand"
)

// Reverb mixes in with a diffuse tail built from ten cascaded streams of
// randomly delayed, crossfaded grains.  Each channel gets its own seed.
func Reverb(in Handle, seed int64) Handle { return New(&reverb{seed: seed}, in) }

type reverb struct {
	params  Params
	seed    int64
	streams []*grainStream
	rand    *rand.Rand
}

type grainStream struct {
	buf      []float64
	i        int
	t, dt    float64
	a1, a2   float64
	i1, i2   int
	dcFilter dcFilter
}

func (r *reverb) Channel(ch int) Kernel {
	return &reverb{seed: r.seed + int64(ch)*7919}
}

func (r *reverb) InitAudio(p Params) {
	r.params = p
	r.streams = r.streams[:0]
	for i := 0; i < 10; i++ {
		s := &grainStream{buf: make([]float64, int(p.SampleRate)), t: 1}
		s.dcFilter.InitAudio(p)
		r.streams = append(r.streams, s)
	}
	r.rand = rand.New(rand.NewSource(r.seed))
}

func (r *reverb) next(dry float64) float64 {
	const (
		size      = .2
		decayTime = 4.0
	)

	wet := 0.0
	x := dry
	for _, s := range r.streams {
		if s.t >= 1 {
			s.t -= 1
			s.a1, s.i1 = s.a2, s.i2
			delay := math.Exp2(r.rand.Float64() - 2.5)
			s.dt = 1 / math.Exp2(r.rand.Float64()) / size / r.params.SampleRate
			s.a2 = math.Pow(.01, delay/decayTime)
			s.i2 = (s.i - int(delay*r.params.SampleRate) + len(s.buf)) % len(s.buf)
		}
		sin2 := math.Sin(math.Pi / 2 * s.t)
		sin2 *= sin2
		y := s.dcFilter.filter(s.a1*(1-sin2)*s.buf[s.i1] + s.a2*sin2*s.buf[s.i2])
		s.i1 = (s.i1 + 1) % len(s.buf)
		s.i2 = (s.i2 + 1) % len(s.buf)
		s.t += s.dt
		s.buf[s.i] = x + y
		s.i = (s.i + 1) % len(s.buf)
		x = y // feed wet output into next stream's input
		wet += y
	}

	return (wet + dry) / 2
}

func (r *reverb) Process(c *Context, in [][]float64, out []float64) {
	for i, x := range in[0] {
		out[i] = r.next(x)
	}
}
