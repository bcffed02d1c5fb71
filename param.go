package ugen

import (
	"math"
	"sync/atomic"
)

// A Param is a control value that can be set from any goroutine while its
// signal is being rendered.  Changes are ramped across one block.
type Param struct {
	h      Handle
	target *atomic.Uint64
}

func NewParam(v float64) *Param {
	p := &Param{target: new(atomic.Uint64)}
	p.target.Store(math.Float64bits(v))
	p.h = New(&paramKernel{target: p.target})
	return p
}

func (p *Param) Handle() Handle { return p.h }

func (p *Param) Set(v float64) { p.target.Store(math.Float64bits(v)) }

func (p *Param) Get() float64 { return math.Float64frombits(p.target.Load()) }

type paramKernel struct {
	target *atomic.Uint64
	ramp   blockRamp
}

func (k *paramKernel) Process(c *Context, in [][]float64, out []float64) {
	k.ramp.update(math.Float64frombits(k.target.Load()), len(out))
	for i := range out {
		out[i] = k.ramp.Next()
	}
}
