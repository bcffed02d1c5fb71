package ugen

import "math/rand"

// WhiteNoise is uniform noise in [-1, 1).  Channels after the first are seeded
// from seed+ch.
func WhiteNoise(seed int64) Handle { return New(&whiteNoise{seed: seed}) }

// BrownNoise is a random walk in [-1, 1] with steps of at most 1/8.
func BrownNoise(seed int64) Handle { return New(&brownNoise{seed: seed}) }

// LFNoise0 holds a new random value freq times a second.
func LFNoise0(freq Handle, seed int64) Handle { return New(&lfNoise{seed: seed}, freq) }

// LFNoise1 ramps linearly between random values freq times a second.
func LFNoise1(freq Handle, seed int64) Handle { return New(&lfNoise{seed: seed, order: 1}, freq) }

// LFNoise2 interpolates cubically between random values freq times a second.
func LFNoise2(freq Handle, seed int64) Handle { return New(&lfNoise{seed: seed, order: 2}, freq) }

type whiteNoise struct {
	seed int64
	rand *rand.Rand
}

func (n *whiteNoise) Channel(ch int) Kernel { return &whiteNoise{seed: n.seed + int64(ch)} }

func (n *whiteNoise) InitAudio(p Params) { n.rand = rand.New(rand.NewSource(n.seed)) }

func (n *whiteNoise) Process(c *Context, in [][]float64, out []float64) {
	for i := range out {
		out[i] = 2*n.rand.Float64() - 1
	}
}

type brownNoise struct {
	seed int64
	rand *rand.Rand
	x    float64
}

func (n *brownNoise) Channel(ch int) Kernel { return &brownNoise{seed: n.seed + int64(ch)} }

func (n *brownNoise) InitAudio(p Params) { n.rand = rand.New(rand.NewSource(n.seed)) }

func (n *brownNoise) Process(c *Context, in [][]float64, out []float64) {
	for i := range out {
		n.x += (2*n.rand.Float64() - 1) / 8
		if n.x > 1 {
			n.x = 2 - n.x
		} else if n.x < -1 {
			n.x = -2 - n.x
		}
		out[i] = n.x
	}
}

// lfNoise draws a new value each period and interpolates between the last
// four with the given order.
type lfNoise struct {
	Params Params
	seed   int64
	order  int
	rand   *rand.Rand
	x      [4]float64
	t      float64
}

func (n *lfNoise) Channel(ch int) Kernel {
	return &lfNoise{seed: n.seed + int64(ch), order: n.order}
}

func (n *lfNoise) InitAudio(p Params) {
	n.Params = p
	n.rand = rand.New(rand.NewSource(n.seed))
	for i := range n.x {
		n.x[i] = n.draw()
	}
	n.t = 0
}

func (n *lfNoise) draw() float64 { return 2*n.rand.Float64() - 1 }

func (n *lfNoise) Process(c *Context, in [][]float64, out []float64) {
	freq := in[0]
	for i := range out {
		switch n.order {
		case 0:
			out[i] = n.x[1]
		case 1:
			out[i] = n.x[1] + (n.x[2]-n.x[1])*n.t
		default:
			out[i] = Interp3(n.t, n.x[0], n.x[1], n.x[2], n.x[3])
		}
		n.t += max(0, freq[i]) / n.Params.SampleRate
		for n.t >= 1 {
			n.t--
			n.x[0], n.x[1], n.x[2] = n.x[1], n.x[2], n.x[3]
			n.x[3] = n.draw()
		}
	}
}

// Interp3 interpolates between x1 (t=0) and x2 (t=1) with a Catmull-Rom spline
// through x0..x3.
func Interp3(t, x0, x1, x2, x3 float64) float64 {
	a0 := -.5*x0 + 1.5*x1 - 1.5*x2 + .5*x3
	a1 := x0 - 2.5*x1 + 2*x2 - .5*x3
	a2 := -.5*x0 + .5*x2
	return ((a0*t+a1)*t+a2)*t + x1
}
