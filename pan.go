package ugen

import "math"

// Pan2 places the mono mix of in between two channels with an equal-power law.
// pos runs from -1 (left) to 1 (right).
func Pan2(in, pos Handle) Handle {
	if in.IsNull() {
		return in
	}
	m := in.Mix()
	if pos.IsNull() {
		pos = C(0)
	}
	pos = pos.Channel(0)
	return Channels(m.Mul(New(&panGain{}, pos)), m.Mul(New(&panGain{right: true}, pos)))
}

type panGain struct {
	right bool
}

func (g *panGain) Process(c *Context, in [][]float64, out []float64) {
	for i, pos := range in[0] {
		θ := (max(-1, min(1, pos)) + 1) * math.Pi / 4
		if g.right {
			out[i] = math.Sin(θ)
		} else {
			out[i] = math.Cos(θ)
		}
	}
}
