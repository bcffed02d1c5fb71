package ugen

// Delay delays in by a fixed time in seconds.
func Delay(in Handle, delay float64) Handle { return New(&constDelay{delay: delay}, in) }

type constDelay struct {
	delay float64
	buf   []float64
	i     int
}

func newConstDelay(delay float64) *constDelay {
	return &constDelay{delay: delay}
}

func (d *constDelay) InitAudio(p Params) {
	d.buf = make([]float64, max(1, int(d.delay*p.SampleRate)))
	d.i = 0
}

func (d *constDelay) next(x float64) float64 {
	y := d.buf[d.i]
	d.buf[d.i] = x
	d.i = (d.i + 1) % len(d.buf)
	return y
}

func (d *constDelay) Process(c *Context, in [][]float64, out []float64) {
	if int(d.delay*c.SampleRate) == 0 {
		copy(out, in[0])
		return
	}
	for i, x := range in[0] {
		out[i] = d.next(x)
	}
}
