package ugen

import "sync/atomic"

// A BlockID identifies one evaluation pass.  IDs handed out by a Clock strictly
// increase; the zero ID is never handed out, so a fresh node is always stale.
type BlockID uint64

type Clock struct {
	n atomic.Uint64
}

func (c *Clock) Next() BlockID { return BlockID(c.n.Add(1)) }

// A Context carries the state of the block being rendered to every node that
// takes part in it.
type Context struct {
	Params
	Block BlockID

	frames int
	zeros  []float64
	input  [][]float64
}

func NewContext(p Params) *Context {
	c := &Context{Params: p}
	c.Begin(0, p.BlockSize)
	return c
}

// Begin starts block id of the given length.
func (c *Context) Begin(id BlockID, frames int) {
	c.Block = id
	c.frames = frames
	if cap(c.zeros) < frames {
		c.zeros = make([]float64, frames)
	}
	c.zeros = c.zeros[:frames]
}

// Frames is the length of the current block.
func (c *Context) Frames() int { return c.frames }

// Silence returns a block of zeros.  It must not be written to.
func (c *Context) Silence() []float64 { return c.zeros }

// Input returns channel ch of the current input block, wrapping ch to the
// number of input channels.  With no input it returns silence.
func (c *Context) Input(ch int) []float64 {
	if len(c.input) == 0 {
		return c.zeros
	}
	in := c.input[wrap(ch, len(c.input))]
	if len(in) < c.frames {
		return c.zeros
	}
	return in[:c.frames]
}

// SetInput sets the input block for the current pass.  The slices are read, not
// copied, until the next call.
func (c *Context) SetInput(in [][]float64) { c.input = in }

// Evaluate pulls one block through the graph behind h and returns one buffer
// per channel of h.  A node reachable by several paths is computed once per
// block ID; later calls in the same block return the cached buffers.  The
// buffers belong to the nodes and are only valid until the next block.
func Evaluate(h Handle, c *Context) [][]float64 {
	out := make([][]float64, len(h.nodes))
	for i, n := range h.nodes {
		out[i] = n.process(c)
	}
	return out
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
