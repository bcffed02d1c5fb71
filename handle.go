package ugen

// A Handle refers to the nodes making up a possibly multichannel signal, one
// node per channel.  Handles are cheap to copy; copies refer to the same nodes.
//
// The zero Handle is null: it stands for the absence of a signal, which is
// distinct from a signal of zeros.  Nodes read a null input as silence.
type Handle struct {
	nodes []*Node
}

// Null returns the null Handle.
func Null() Handle { return Handle{} }

// New builds a unit generator running k over inputs.  The result has as many
// channels as the widest input (or as k's NumChannels, if it is a Widther); each
// channel gets its own copy of k and reads channel ch mod width of each input.
func New(k Kernel, inputs ...Handle) Handle {
	width := 1
	for _, h := range inputs {
		width = max(width, h.NumChannels())
	}
	if w, ok := k.(Widther); ok {
		width = max(1, w.NumChannels())
	}
	first := newNode(k, 0, inputs)
	h := Handle{nodes: make([]*Node, width)}
	h.nodes[0] = first
	for ch := 1; ch < width; ch++ {
		h.nodes[ch] = first.ForChannel(ch)
	}
	return h
}

// Channels joins the channels of hs into one Handle.  A null argument adds one
// silent channel.
func Channels(hs ...Handle) Handle {
	var nodes []*Node
	for _, h := range hs {
		if h.IsNull() {
			nodes = append(nodes, nil)
			continue
		}
		nodes = append(nodes, h.nodes...)
	}
	if len(nodes) == 0 {
		return Handle{}
	}
	return Handle{nodes: nodes}
}

func (h Handle) IsNull() bool { return len(h.nodes) == 0 }

func (h Handle) NumChannels() int { return len(h.nodes) }

// Channel returns channel ch of h, wrapping ch to h's width.  The null Handle
// has no channels and returns itself.
func (h Handle) Channel(ch int) Handle {
	if h.IsNull() {
		return h
	}
	if len(h.nodes) == 1 {
		return h
	}
	return Handle{nodes: h.nodes[wrap(ch, len(h.nodes)) : wrap(ch, len(h.nodes))+1]}
}

// Spread returns n channels, each a copy of h's first channel derived for
// its channel index (see Node.ForChannel).  Noise generators derive a new seed
// per channel.
func (h Handle) Spread(n int) Handle {
	if h.IsNull() || n <= 0 {
		return Handle{}
	}
	first := h.nodes[0]
	s := Handle{nodes: make([]*Node, n)}
	s.nodes[0] = first
	for ch := 1; ch < n; ch++ {
		if first == nil {
			continue
		}
		s.nodes[ch] = first.ForChannel(ch)
	}
	return s
}

// Node returns the node of channel ch, or nil if h is null.
func (h Handle) Node(ch int) *Node {
	if h.IsNull() {
		return nil
	}
	return h.nodes[wrap(ch, len(h.nodes))]
}

// Process evaluates every channel of h for the block in c.
func (h Handle) Process(c *Context) [][]float64 { return Evaluate(h, c) }

// Done reports whether every channel of h has ended.  A null Handle is done.
func (h Handle) Done() bool {
	for _, n := range h.nodes {
		if n != nil && !n.Done() {
			return false
		}
	}
	return true
}

// Value returns the last sample channel ch produced.
func (h Handle) Value(ch int) float64 { return h.Node(ch).Value() }

// Release releases every Releaser reachable from h, starting the final segment
// of its envelopes.  It must not run concurrently with rendering; see
// Engine.Release.
func (h Handle) Release() {
	seen := map[*Node]bool{}
	for _, n := range h.nodes {
		n.release(seen)
	}
}

// OnDone binds r to the end of each channel of h and returns the bindings.
// Channels that have already ended notify r immediately.  Binding to a handle
// that is being rendered must happen under the engine lock (Engine.Do).
func (h Handle) OnDone(r DoneReceiver) []*Binding {
	var bs []*Binding
	for _, n := range h.nodes {
		if n == nil {
			continue
		}
		b := n.signal.connect(r)
		bs = append(bs, b)
		if n.finished {
			n.signal.emit(DoneFinished)
		}
	}
	return bs
}

// Add returns h + o.  A null operand yields the other operand.
func (h Handle) Add(o Handle) Handle {
	if h.IsNull() {
		return o
	}
	if o.IsNull() {
		return h
	}
	return New(new(add), h, o)
}

// Sub returns h - o.  Subtracting null yields h; subtracting from null yields -o.
func (h Handle) Sub(o Handle) Handle {
	if o.IsNull() {
		return h
	}
	if h.IsNull() {
		return o.Neg()
	}
	return New(new(sub), h, o)
}

// Mul returns h * o.  A null operand yields null.
func (h Handle) Mul(o Handle) Handle {
	if h.IsNull() || o.IsNull() {
		return Handle{}
	}
	return New(new(mul), h, o)
}

// Div returns h / o.  A null operand yields null.
func (h Handle) Div(o Handle) Handle {
	if h.IsNull() || o.IsNull() {
		return Handle{}
	}
	return New(new(div), h, o)
}

func (h Handle) Neg() Handle {
	if h.IsNull() {
		return h
	}
	return New(new(neg), h)
}

func (h Handle) AddX(x float64) Handle { return h.Add(C(x)) }
func (h Handle) SubX(x float64) Handle { return h.Sub(C(x)) }
func (h Handle) MulX(x float64) Handle { return h.Mul(C(x)) }
func (h Handle) DivX(x float64) Handle { return h.Div(C(x)) }

// MulAdd returns h*m + a in one node.  A null h or m yields null; a null a
// is treated as zero.
func (h Handle) MulAdd(m, a Handle) Handle {
	if h.IsNull() || m.IsNull() {
		return Handle{}
	}
	if a.IsNull() {
		return h.Mul(m)
	}
	return New(new(mulAdd), h, m, a)
}

// Mix sums the channels of h into one channel.
func (h Handle) Mix() Handle {
	if len(h.nodes) <= 1 {
		return h
	}
	m := Handle{}
	for ch := range h.nodes {
		m = m.Add(Handle{nodes: h.nodes[ch : ch+1]})
	}
	return m
}
