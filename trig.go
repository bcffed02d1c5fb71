package ugen

// Trig outputs 1 for one sample whenever in crosses from <= 0 to > 0, and 0
// otherwise.
func Trig(in Handle) Handle { return New(new(trig), in) }

type trig struct {
	prev float64
}

func (t *trig) Process(c *Context, in [][]float64, out []float64) {
	for i, x := range in[0] {
		out[i] = 0
		if t.prev <= 0 && x > 0 {
			out[i] = 1
		}
		t.prev = x
	}
}
