package main

import (
	"math"

	"github.com/gordonklaus/ugen"
)

type note struct {
	Pitch, Amp, Pan float64
}

// synth plays a plucked sine with a little tremolo, optionally through a
// convolution reverb.
type synth struct {
	ir ugen.Samples
}

func (s *synth) Play(n note) ugen.Handle {
	tremolo := ugen.Sine(ugen.C(5)).MulAdd(ugen.C(.1), ugen.C(.9))
	amp := ugen.EnvGen(ugen.Perc(.01, 2, n.Amp, ugen.Exponential)).Mul(tremolo)
	h := ugen.Sine(ugen.C(pitchToFreq(n.Pitch))).Mul(amp)
	h = ugen.SoftClip(h.MulX(2)).MulX(.5)
	if s.ir.Len() > 0 {
		h = h.Add(ugen.Convolve(h, s.ir).MulX(.2))
	}
	return ugen.Pan2(h, ugen.C(n.Pan))
}

func pitchToFreq(pitch float64) float64 { return 512 * math.Pow(2, pitch/12) }

func melody() *ugen.Pattern {
	p := &ugen.Pattern{Name: "demo"}
	for i, pitch := range []float64{0, 4, 7, 12, 7, 4, 0, -5, 0} {
		p.Notes = append(p.Notes, &ugen.Note{
			Time:       .4 * float64(i),
			Duration:   .3,
			Attributes: map[string]float64{"Pitch": pitch - 12, "Amp": .3, "Pan": math.Sin(float64(i))},
		})
	}
	return p
}
