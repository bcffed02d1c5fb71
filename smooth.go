package ugen

// A Ramp moves Value linearly to a target over a fixed number of steps, landing
// exactly on the target at the last step.
type Ramp struct {
	Value  float64
	target float64
	step   float64
	left   int
}

// Set starts a ramp to target over n steps.  With n <= 0 Value jumps.
func (r *Ramp) Set(target float64, n int) {
	r.target = target
	if n <= 0 || target == r.Value {
		r.Jump(target)
		return
	}
	r.step = (target - r.Value) / float64(n)
	r.left = n
}

// Jump sets Value to v with no ramp.
func (r *Ramp) Jump(v float64) {
	r.Value, r.target, r.step, r.left = v, v, 0, 0
}

// Next advances one step and returns the new Value.
func (r *Ramp) Next() float64 {
	if r.left > 0 {
		r.left--
		if r.left == 0 {
			r.Value = r.target
		} else {
			r.Value += r.step
		}
	}
	return r.Value
}

func (r *Ramp) Target() float64 { return r.target }
func (r *Ramp) Ramping() bool    { return r.left > 0 }

// blockRamp smooths a control value across one block: when the control changes
// between blocks, the value ramps from the old to the new one over the block.
type blockRamp struct {
	Ramp
	started bool
}

// update sets the control for a block of n samples.
func (r *blockRamp) update(v float64, n int) {
	if !r.started {
		r.started = true
		r.Jump(v)
		return
	}
	r.Set(v, n)
}
