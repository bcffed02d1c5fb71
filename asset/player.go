package asset

import (
	"math"

	"github.com/gordonklaus/ugen"
)

// Player plays t at its own sample rate, one output channel per table
// channel, resampling linearly.  A looping player never ends; otherwise the
// node is done once it has passed the last frame.
func (t *Table) Player(loop bool) ugen.Handle {
	return ugen.New(&player{t: t, loop: loop})
}

type player struct {
	t    *Table
	ch   int
	loop bool

	pos, step float64
	done      bool
}

func (k *player) NumChannels() int { return len(k.t.Channels) }

func (k *player) Channel(ch int) ugen.Kernel {
	return &player{t: k.t, ch: ch, loop: k.loop}
}

func (k *player) InitAudio(p ugen.Params) { k.step = k.t.SampleRate / p.SampleRate }

func (k *player) Process(c *ugen.Context, in [][]float64, out []float64) {
	var data []float64
	if k.ch < len(k.t.Channels) {
		data = k.t.Channels[k.ch].Values()
	}
	n := float64(len(data))
	for i := range out {
		if k.pos >= n {
			if !k.loop || n == 0 {
				k.done = true
				clear(out[i:])
				return
			}
			k.pos = math.Mod(k.pos, n)
		}
		j := int(k.pos)
		x, next := data[j], 0.
		switch {
		case j+1 < len(data):
			next = data[j+1]
		case k.loop:
			next = data[0]
		}
		out[i] = x + (next-x)*(k.pos-float64(j))
		k.pos += k.step
	}
}

func (k *player) Done() bool { return k.done }
