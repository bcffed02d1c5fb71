package ugen

import "sync/atomic"

// VoiceState is the lifecycle stage of a Voice.
type VoiceState int32

const (
	Playing VoiceState = iota
	Releasing
	Finished
)

func (s VoiceState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Releasing:
		return "releasing"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// A Voice is one independently lifecycled signal graph registered for mixing.
// Its output Handle becomes null when every channel of the graph has ended;
// the mixer drops the voice on the pass that observes it.
type Voice struct {
	out      atomic.Pointer[Handle]
	state    atomic.Int32
	bindings []*Binding
	pending  int
	watched  bool
	mixing   bool
}

func NewVoice(h Handle) *Voice {
	v := &Voice{}
	v.out.Store(&h)
	return v
}

// Out returns the voice's output, or null once it has finished.
func (v *Voice) Out() Handle { return *v.out.Load() }

// IsAlive reports whether the voice's output is non-null.
func (v *Voice) IsAlive() bool { return !v.Out().IsNull() }

func (v *Voice) State() VoiceState { return VoiceState(v.state.Load()) }

// watch binds v to the end of its output's channels.  A voice with no
// channels that can play finishes at once.  Watching twice does nothing until
// unbind.
func (v *Voice) watch() {
	if v.watched {
		return
	}
	v.watched = true
	v.pending = 0
	h := v.Out()
	for _, n := range h.nodes {
		if n != nil {
			v.pending++
		}
	}
	if v.pending == 0 {
		v.finish()
		return
	}
	v.bindings = h.OnDone(v)
}

// HandleDone counts the ended channels and finishes the voice after the last.
func (v *Voice) HandleDone(reason int) {
	if v.pending--; v.pending <= 0 {
		v.finish()
	}
}

func (v *Voice) finish() {
	v.state.Store(int32(Finished))
	v.out.Store(&Handle{})
}

// release moves a playing voice to Releasing and releases its graph.  It is a
// no-op in any other state.
func (v *Voice) release() {
	if !v.state.CompareAndSwap(int32(Playing), int32(Releasing)) {
		return
	}
	v.Out().Release()
}

func (v *Voice) unbind() {
	for _, b := range v.bindings {
		b.Cancel()
	}
	v.bindings = nil
	v.pending = 0
	v.watched = false
}
