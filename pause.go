package ugen

// Pause scales in by level, ramping linearly across a block whenever level
// changes so that pausing and resuming don't click.
func Pause(in, level Handle) Handle { return New(new(pause), in, level) }

type pause struct {
	level blockRamp
}

func (p *pause) Process(c *Context, in [][]float64, out []float64) {
	x, level := in[0], in[1]
	if len(out) == 0 {
		return
	}
	p.level.update(level[len(level)-1], len(out))
	if !p.level.Ramping() && p.level.Value == 0 {
		clear(out)
		return
	}
	for i := range out {
		out[i] = x[i] * p.level.Next()
	}
}
