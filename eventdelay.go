package ugen

import "math"

// An EventDelay runs functions after a delay measured in samples.  Time only
// advances in Step, so events fire at the first block boundary at or after
// their due time.
type EventDelay struct {
	Params Params
	events []delayEvent
	due    []func()
}

type delayEvent struct {
	n int
	f func()
}

// Delay schedules f to run t seconds from now.
func (d *EventDelay) Delay(t float64, f func()) {
	if d.Params.SampleRate == 0 {
		panic("EventDelay.Delay called before InitAudio")
	}
	d.delay(int(math.Round(t*d.Params.SampleRate)), f)
}

func (d *EventDelay) delay(n int, f func()) {
	n = max(n, 0)
	i := 0
	for ; i < len(d.events); i++ {
		e := &d.events[i]
		if n < e.n {
			e.n -= n
			break
		}
		n -= e.n
	}
	d.events = append(d.events, delayEvent{})
	copy(d.events[i+1:], d.events[i:])
	d.events[i] = delayEvent{n, f}
}

// Step advances time by n samples and runs the events that have come due, in
// order.  Events scheduled by those functions are not run until a later Step,
// even if their delay is zero.
func (d *EventDelay) Step(n int) {
	d.due = d.due[:0]
	for len(d.events) > 0 {
		e := &d.events[0]
		if e.n > n {
			e.n -= n
			break
		}
		n -= e.n
		d.due = append(d.due, e.f)
		d.events = d.events[1:]
	}
	for i, f := range d.due {
		f()
		d.due[i] = nil
	}
}

func (d *EventDelay) Len() int { return len(d.events) }
