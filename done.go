package ugen

import "sync/atomic"

// Reason codes passed to DoneReceiver.HandleDone.
const (
	DoneFinished = iota
)

// A DoneReceiver is notified when a node it is bound to ends.  HandleDone runs
// on the render goroutine with the engine lock held, so it must not block or
// call back into the locking Engine methods.
type DoneReceiver interface {
	HandleDone(reason int)
}

// DoneFunc adapts a function to a DoneReceiver.
type DoneFunc func(reason int)

func (f DoneFunc) HandleDone(reason int) { f(reason) }

// A Binding connects a node's done notification to a receiver.  It holds no
// claim on the receiver's lifetime: once cancelled the node never calls the
// receiver again, so a receiver that is going away cancels its bindings first.
type Binding struct {
	receiver DoneReceiver
	active   atomic.Bool
}

// Cancel disconnects b.  It is safe to call from any goroutine and more than
// once.
func (b *Binding) Cancel() { b.active.Store(false) }

func (b *Binding) Active() bool { return b.active.Load() }

type doneSignal struct {
	conns []*Binding
}

func (s *doneSignal) connect(r DoneReceiver) *Binding {
	b := &Binding{receiver: r}
	b.active.Store(true)
	s.conns = append(s.conns, b)
	return b
}

func (s *doneSignal) emit(reason int) {
	conns := s.conns
	s.conns = nil
	for _, b := range conns {
		if b.active.Swap(false) {
			b.receiver.HandleDone(reason)
		}
	}
}
