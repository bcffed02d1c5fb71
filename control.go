package ugen

import (
	"fmt"
	"math"
)

// A ControlPoint is a breakpoint of a Control: the signal reaches Value at
// Time seconds.
type ControlPoint struct {
	Time, Value float64
}

// Control returns a signal moving linearly from 0 through points.  It is done
// once it reaches the last point.  Points must be in time order; two points at
// the same time mark a jump.
func Control(points ...ControlPoint) (Handle, error) {
	for i := range points {
		if i > 0 && points[i].Time < points[i-1].Time {
			return Handle{}, fmt.Errorf("control point %d at %gs before %gs: %w",
				i, points[i].Time, points[i-1].Time, ErrInvalidParams)
		}
	}
	return New(&control{points: points}), nil
}

// Line moves from from to to over dur seconds.
func Line(from, to, dur float64) Handle {
	return New(&control{points: []ControlPoint{{0, from}, {dur, to}}})
}

type control struct {
	params  Params
	points  []ControlPoint
	periods []controlPeriod
	x       float64
}

type controlPeriod struct {
	n     int
	dx    float64
	value float64
}

func (c *control) InitAudio(params Params) {
	c.params = params
	c.setTime(0)
}

func (c *control) setTime(t float64) {
	c.periods = make([]controlPeriod, len(c.points))
	prev := ControlPoint{}
	for i, p := range c.points {
		n := int(math.Round((p.Time - prev.Time) * c.params.SampleRate))
		dx := 0.0
		if n > 0 {
			dx = (p.Value - prev.Value) / float64(n)
		}
		c.periods[i] = controlPeriod{n, dx, p.Value}
		prev = p
	}

	c.x = 0
	n := int(t * c.params.SampleRate)
	for len(c.periods) > 0 {
		p := &c.periods[0]
		if p.n > n {
			p.n -= n
			c.x += float64(n) * p.dx
			break
		}
		n -= p.n
		c.x = p.value
		c.periods = c.periods[1:]
	}
}

func (c *control) next() float64 {
	for len(c.periods) > 0 {
		p := &c.periods[0]
		if p.n > 0 {
			p.n--
			c.x += p.dx
			break
		}
		c.x = p.value // zero-length periods mark discontinuities
		c.periods = c.periods[1:]
	}
	return c.x
}

func (c *control) Process(ctx *Context, in [][]float64, out []float64) {
	for i := range out {
		out[i] = c.next()
	}
}

func (c *control) Done() bool {
	return len(c.periods) == 0
}
