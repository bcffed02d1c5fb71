package ugen

import "testing"

func TestEventDelay(t *testing.T) {
	var d EventDelay
	Init(&d, Params{SampleRate: 1})

	var e, e2 delayedEvent
	d.Delay(4, e.f)
	e.test(t, &d, 4)

	e = false
	e2 = false
	d.Delay(4, e.f)
	d.Delay(8, e2.f)
	e.test(t, &d, 4)
	e2.test(t, &d, 4)

	e = false
	e2 = false
	d.Delay(8, e2.f)
	d.Delay(4, e.f)
	e.test(t, &d, 4)
	e2.test(t, &d, 4)

	e = false
	e2 = false
	d.Delay(4, e.f)
	d.Delay(4, e2.f)
	for i := 0; i < 4; i++ {
		if e == true {
			t.Fatalf("true before %d", i)
		}
		if e2 == true {
			t.Fatalf("e2 true before %d", i)
		}
		d.Step(1)
	}
	if e == false {
		t.Fatalf("false after %d", 4)
	}
	if e2 == false {
		t.Fatalf("e2 false after %d", 4)
	}
}

func TestEventDelayBlockQuantized(t *testing.T) {
	var d EventDelay
	Init(&d, Params{SampleRate: 100})

	var order []int
	d.Delay(.05, func() { order = append(order, 2) })
	d.Delay(.01, func() { order = append(order, 1) })
	d.Delay(.25, func() { order = append(order, 3) })

	d.Step(4) // t=4: event at 1 is due
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("got %v, want [1]", order)
	}
	d.Step(4) // t=8: event at 5 is due
	if len(order) != 2 || order[1] != 2 {
		t.Fatalf("got %v, want [1 2]", order)
	}
	d.Step(100)
	if len(order) != 3 || d.Len() != 0 {
		t.Fatalf("got %v with %d pending", order, d.Len())
	}
}

func TestEventDelayRescheduleFromEvent(t *testing.T) {
	var d EventDelay
	Init(&d, Params{SampleRate: 1})

	n := 0
	var f func()
	f = func() {
		n++
		d.Delay(0, f)
	}
	d.Delay(0, f)
	d.Step(1)
	if n != 1 {
		t.Fatalf("got %d calls in one step, want 1", n)
	}
	d.Step(1)
	if n != 2 {
		t.Fatalf("got %d calls after two steps, want 2", n)
	}
}

type delayedEvent bool

func (e *delayedEvent) f() { *e = true }

func (e *delayedEvent) test(t *testing.T, d *EventDelay, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if *e == true {
			t.Fatalf("true before %d", i)
		}
		d.Step(1)
	}
	if *e == false {
		t.Fatalf("false after %d", n)
	}
}
