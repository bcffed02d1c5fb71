package ugen

import "math"

// Denoise learns a noise profile from the first profileFrames frames of in
// (512 samples each) and from then on subtracts it spectrally.  Until the
// profile is complete in passes through, delayed like the filtered signal.
func Denoise(in Handle, profileFrames int) Handle {
	return New(&denoiser{numToCollect: max(1, profileFrames)}, in)
}

const denoiseSize = 512

type denoiser struct {
	numToCollect int

	fft   *spectral
	noise []float64
	err   error

	collecting   []complex128
	collected    []float64
	mag          []float64
	numCollected int
}

func (d *denoiser) InitAudio(p Params) {
	d.noise = make([]float64, denoiseSize)
	d.collecting = make([]complex128, 0, denoiseSize)
	d.collected = make([]float64, denoiseSize)
	d.numCollected = 0
	d.fft, d.err = newSpectral(denoiseSize, d.denoise)
}

func (d *denoiser) collect(x float64) {
	if d.numCollected >= d.numToCollect {
		return
	}
	d.collecting = append(d.collecting, complex(x, 0))
	if len(d.collecting) < len(d.collected) {
		return
	}
	d.collecting = d.fft.fft.Transform(d.collecting)
	d.mag = Magnitude(d.collecting, d.mag)
	for i, m := range d.mag {
		d.collected[i] += m
	}

	d.collecting = d.collecting[:0]
	d.numCollected++

	if d.numCollected == d.numToCollect {
		for i := range d.collected {
			d.noise[i] = math.Pow(d.collected[i]/float64(d.numToCollect), 2)
		}
	}
}

func (d *denoiser) denoise(x []complex128) {
	for i := range x {
		s := real(x[i])*real(x[i]) + imag(x[i])*imag(x[i])
		if s != 0 {
			x[i] *= complex(math.Sqrt(math.Max(0, 1-d.noise[i]/s)), 0)
		}
	}
}

func (d *denoiser) Process(c *Context, in [][]float64, out []float64) {
	if d.err != nil {
		copy(out, in[0])
		return
	}
	for i, x := range in[0] {
		d.collect(x)
		out[i] = d.fft.filter(x)
	}
}
