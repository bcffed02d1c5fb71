package ugen

import "slices"

// A Mixer sums the outputs of its voices into a fixed number of channels.
// Voices narrower than the mixer are channel-wrapped to fill it.
type Mixer struct {
	channels int
	voices   []*Voice
	sum      [][]float64
}

func NewMixer(channels int) *Mixer {
	return &Mixer{channels: max(1, channels)}
}

func (m *Mixer) NumChannels() int { return m.channels }

func (m *Mixer) Add(v *Voice) error {
	if v.mixing {
		return ErrVoicePlaying
	}
	v.mixing = true
	m.voices = append(m.voices, v)
	return nil
}

// Remove drops v and cancels its done notifications.  It reports whether v was
// in the mixer.
func (m *Mixer) Remove(v *Voice) bool {
	i := slices.Index(m.voices, v)
	if i < 0 {
		return false
	}
	m.voices = slices.Delete(m.voices, i, i+1)
	m.drop(v)
	return true
}

func (m *Mixer) drop(v *Voice) {
	v.mixing = false
	v.unbind()
}

// reserve makes room for n more voices and sizes the sum buffers for blocks
// of frames, so that neither Mix nor a scheduled add grows them.
func (m *Mixer) reserve(n, frames int) {
	m.voices = slices.Grow(m.voices, n)
	if len(m.sum) != m.channels || len(m.sum[0]) != frames {
		m.sum = make([][]float64, m.channels)
		for ch := range m.sum {
			m.sum[ch] = make([]float64, frames)
		}
	}
}

func (m *Mixer) Len() int { return len(m.voices) }

// Voices returns the voices in the mixer.  The slice must not be modified.
func (m *Mixer) Voices() []*Voice { return m.voices }

// Mix evaluates every voice for block c and returns the summed channels, then
// drops the voices whose output has become null.  The returned buffers are
// reused by the next call.
func (m *Mixer) Mix(c *Context) [][]float64 {
	m.reserve(0, c.frames)
	for _, s := range m.sum {
		clear(s)
	}

	for _, v := range m.voices {
		h := v.Out()
		if h.IsNull() {
			continue
		}
		for _, n := range h.nodes {
			n.process(c)
		}
		for ch, s := range m.sum {
			x := h.nodes[wrap(ch, len(h.nodes))].process(c)
			for i := range s {
				s[i] += x[i]
			}
		}
	}

	m.voices = slices.DeleteFunc(m.voices, func(v *Voice) bool {
		if v.IsAlive() {
			return false
		}
		m.drop(v)
		return true
	})
	return m.sum
}
