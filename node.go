package ugen

import (
	"math"
	"reflect"
	"sync/atomic"
)

// A Kernel is the signal algorithm of a node.  Process is given one buffer per
// input, each the length of out, and fills out.  Inputs must not be written to.
//
// A kernel may also implement Initer (called before its first block and on
// every change of Params), Doner, Releaser and Channeler.
type Kernel interface {
	Process(c *Context, in [][]float64, out []float64)
}

// A Doner reports that its signal has permanently ended.
type Doner interface {
	Done() bool
}

// A Releaser begins its final segment when released.
type Releaser interface {
	Release()
}

// A Channeler returns the kernel to use for channel ch of a multichannel node.
// Kernels that don't implement it are shallow-copied, so any per-channel state
// they hold in slices or maps must be allocated in InitAudio.
type Channeler interface {
	Channel(ch int) Kernel
}

// A Widther fixes the number of channels its node expands to, regardless of
// the width of its inputs.
type Widther interface {
	NumChannels() int
}

// joiner marks kernels whose node is done only once all of its inputs are.
// Other nodes are done as soon as any input is.
type joiner interface {
	joinsInputs()
}

// A Node is one channel of a unit generator: a kernel, its inputs and the
// buffer it last computed.  A Node computes its output at most once per block.
type Node struct {
	kernel Kernel
	src    []Handle
	inputs []Handle
	ch     int

	in     [][]float64
	out    Samples
	block  BlockID
	params Params
	inited bool

	finished bool
	signal   doneSignal
	last     atomic.Uint64
}

func newNode(k Kernel, ch int, inputs []Handle) *Node {
	n := &Node{kernel: k, ch: ch, src: inputs, inputs: make([]Handle, len(inputs))}
	for i, h := range inputs {
		n.inputs[i] = h.Channel(ch)
	}
	n.in = make([][]float64, len(inputs))
	return n
}

func (n *Node) NumChannels() int { return 1 }

func (n *Node) Kernel() Kernel { return n.kernel }

// ForChannel returns a new node running a copy of n's kernel on channel ch of
// each of the handles n was built from.  Inputs with fewer channels are
// wrapped: channel ch of a k-channel input is its channel ch mod k.
func (n *Node) ForChannel(ch int) *Node {
	return newNode(kernelFor(n.kernel, ch), ch, n.src)
}

func kernelFor(k Kernel, ch int) Kernel {
	if c, ok := k.(Channeler); ok {
		return c.Channel(ch)
	}
	v := reflect.ValueOf(k)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return k
	}
	c := reflect.New(v.Elem().Type())
	c.Elem().Set(v.Elem())
	return c.Interface().(Kernel)
}

// ProcessBlock returns n's output for block c.Block, computing it first if n
// has not yet been evaluated for that block.
func (n *Node) ProcessBlock(c *Context) []float64 { return n.process(c) }

func (n *Node) process(c *Context) []float64 {
	if n == nil {
		return c.zeros
	}
	if n.block == c.Block && n.inited {
		return n.out.Values()
	}
	n.block = c.Block

	n.init(c.Params, c.frames)

	inputDone, allDone := false, len(n.inputs) > 0
	for i, h := range n.inputs {
		if h.IsNull() {
			n.in[i] = c.zeros
			allDone = false
			continue
		}
		in := h.nodes[0]
		n.in[i] = in.process(c)
		if in.Done() {
			inputDone = true
		} else {
			allDone = false
		}
	}

	out := n.out.Data()
	n.kernel.Process(c, n.in, out)
	if len(out) > 0 {
		n.last.Store(math.Float64bits(out[len(out)-1]))
	}

	if !n.finished {
		done := inputDone
		if _, ok := n.kernel.(joiner); ok {
			done = allDone
		}
		if d, ok := n.kernel.(Doner); ok && d.Done() {
			done = true
		}
		if done {
			n.finished = true
			n.signal.emit(DoneFinished)
		}
	}
	return out
}

func (n *Node) init(p Params, frames int) {
	if !n.inited || n.params != p {
		Init(n.kernel, p)
		n.params = p
		n.inited = true
	}
	if n.out.Len() != frames {
		n.out.Release()
		n.out = WithSize[float64](frames)
	}
}

// prepare initializes n and everything it reads from for blocks of p, so
// that the render path finds kernels initialized and buffers sized.
func (n *Node) prepare(p Params, seen map[*Node]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	n.init(p, p.BlockSize)
	for _, h := range n.inputs {
		for _, in := range h.nodes {
			in.prepare(p, seen)
		}
	}
}

// Done reports whether n's signal has permanently ended.
func (n *Node) Done() bool {
	return n != nil && n.finished
}

// Value returns the last sample n produced.  It is safe to call from any
// goroutine.
func (n *Node) Value() float64 {
	if n == nil {
		return 0
	}
	return math.Float64frombits(n.last.Load())
}

func (n *Node) release(seen map[*Node]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	if r, ok := n.kernel.(Releaser); ok {
		r.Release()
	}
	for _, h := range n.inputs {
		for _, in := range h.nodes {
			in.release(seen)
		}
	}
}
