package ugen

// Input plays channel ch of the engine's audio input, wrapped to the number of
// input channels.  Without input it is silent.
func Input(ch int) Handle { return New(&input{ch: ch}) }

// Inputs returns input channels 0 through n-1.
func Inputs(n int) Handle {
	hs := make([]Handle, n)
	for ch := range hs {
		hs[ch] = Input(ch)
	}
	return Channels(hs...)
}

type input struct {
	ch int
}

func (k *input) Process(c *Context, in [][]float64, out []float64) {
	copy(out, c.Input(k.ch))
}
