package ugen

// C returns a constant signal with one channel per value.  C() is null.
func C(values ...float64) Handle {
	hs := make([]Handle, len(values))
	for i, v := range values {
		hs[i] = New(&constant{v})
	}
	return Channels(hs...)
}

type constant struct {
	v float64
}

func (k *constant) Process(c *Context, in [][]float64, out []float64) {
	for i := range out {
		out[i] = k.v
	}
}

type add struct{}

func (add) joinsInputs() {}

func (add) Process(c *Context, in [][]float64, out []float64) {
	a, b := in[0], in[1]
	for i := range out {
		out[i] = a[i] + b[i]
	}
}

type sub struct{}

func (sub) joinsInputs() {}

func (sub) Process(c *Context, in [][]float64, out []float64) {
	a, b := in[0], in[1]
	for i := range out {
		out[i] = a[i] - b[i]
	}
}

type mul struct{}

func (mul) Process(c *Context, in [][]float64, out []float64) {
	a, b := in[0], in[1]
	for i := range out {
		out[i] = a[i] * b[i]
	}
}

// div yields zero where the divisor is zero.
type div struct{}

func (div) Process(c *Context, in [][]float64, out []float64) {
	a, b := in[0], in[1]
	for i := range out {
		if b[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = a[i] / b[i]
	}
}

type neg struct{}

func (neg) Process(c *Context, in [][]float64, out []float64) {
	for i, x := range in[0] {
		out[i] = -x
	}
}

type mulAdd struct{}

func (mulAdd) Process(c *Context, in [][]float64, out []float64) {
	x, m, a := in[0], in[1], in[2]
	for i := range out {
		out[i] = x[i]*m[i] + a[i]
	}
}

// Map returns a unit generator applying f to every sample of h.
func Map(h Handle, f func(float64) float64) Handle {
	if h.IsNull() {
		return h
	}
	return New(&mapKernel{f}, h)
}

type mapKernel struct {
	f func(float64) float64
}

func (k *mapKernel) Process(c *Context, in [][]float64, out []float64) {
	for i, x := range in[0] {
		out[i] = k.f(x)
	}
}
