package ugen

import "math"

// A Curve shapes an envelope segment.
type Curve struct {
	kind  curveKind
	shape float64
}

type curveKind int

const (
	linear curveKind = iota
	exponential
	sine
	step
	shaped
)

var (
	Linear      = Curve{kind: linear}
	Exponential = Curve{kind: exponential}
	SineCurve   = Curve{kind: sine}
	Step        = Curve{kind: step}
)

// Shape returns a curve bending towards the end of the segment for positive c
// and towards the start for negative c.  Shape(0) is Linear.
func Shape(c float64) Curve { return Curve{kind: shaped, shape: c} }

func (c Curve) at(from, to, t float64) float64 {
	switch c.kind {
	case exponential:
		if from != 0 && to != 0 && (from > 0) == (to > 0) {
			return from * math.Pow(to/from, t)
		}
	case sine:
		return from + (to-from)*(1-math.Cos(math.Pi*t))/2
	case step:
		return to
	case shaped:
		if math.Abs(c.shape) > 1e-4 {
			return from + (to-from)*(1-math.Exp(t*c.shape))/(1-math.Exp(c.shape))
		}
	}
	return from + (to-from)*t
}

// An Env is a breakpoint envelope: segment i moves from Levels[i] to
// Levels[i+1] over Times[i] seconds with shape Curves[i] (the last curve is
// reused if there are fewer curves than segments).  If ReleaseNode is a valid
// level index the envelope holds that level until released; otherwise it runs
// straight through.
type Env struct {
	Levels      []float64
	Times       []float64
	Curves      []Curve
	ReleaseNode int
}

// Perc is an attack-release envelope that doesn't wait to be released.
func Perc(attack, release, level float64, curve Curve) Env {
	return Env{
		Levels:      []float64{0, level, 0},
		Times:       []float64{attack, release},
		Curves:      []Curve{curve},
		ReleaseNode: -1,
	}
}

// ASR attacks to level, sustains until released, then releases to zero.
func ASR(attack, level, release float64, curve Curve) Env {
	return Env{
		Levels:      []float64{0, level, 0},
		Times:       []float64{attack, release},
		Curves:      []Curve{curve},
		ReleaseNode: 1,
	}
}

// ADSR sustains at sustain*level.
func ADSR(attack, decay, sustain, release, level float64, curve Curve) Env {
	return Env{
		Levels:      []float64{0, level, level * sustain, 0},
		Times:       []float64{attack, decay, release},
		Curves:      []Curve{curve},
		ReleaseNode: 2,
	}
}

// Linen is a trapezoid: attack, hold for sustain seconds, release.
func Linen(attack, sustain, release, level float64) Env {
	return Env{
		Levels:      []float64{0, level, level, 0},
		Times:       []float64{attack, sustain, release},
		Curves:      []Curve{Linear},
		ReleaseNode: -1,
	}
}

func (e Env) curve(seg int) Curve {
	if len(e.Curves) == 0 {
		return Linear
	}
	return e.Curves[min(seg, len(e.Curves)-1)]
}

func (e Env) hasReleaseNode() bool {
	return e.ReleaseNode >= 0 && e.ReleaseNode < len(e.Levels)-1
}

// EnvGen plays env.  It is done, and notifies its receivers, after its last
// segment.  Releasing it jumps from the current level into the segment after
// the release node.
func EnvGen(env Env) Handle { return New(&envGen{env: env}) }

type envGen struct {
	Params   Params
	env      Env
	seg      int
	pos, n   int
	from, to float64
	level    float64
	holding  bool
	released bool
	release  bool
	done     bool
}

func (g *envGen) InitAudio(p Params) {
	g.Params = p
	g.seg = 0
	g.released, g.done, g.holding = false, false, false
	if len(g.env.Levels) == 0 {
		g.done = true
		return
	}
	g.level = g.env.Levels[0]
	g.enter(0)
}

func (g *envGen) enter(seg int) {
	g.seg = seg
	if seg >= len(g.env.Times) || seg+1 >= len(g.env.Levels) {
		g.done = true
		return
	}
	if seg == g.env.ReleaseNode && g.env.hasReleaseNode() && !g.released {
		g.holding = true
		return
	}
	g.holding = false
	g.from, g.to = g.level, g.env.Levels[seg+1]
	g.pos, g.n = 0, max(1, int(math.Round(g.env.Times[seg]*g.Params.SampleRate)))
}

func (g *envGen) Release() {
	if g.env.hasReleaseNode() {
		g.release = true
	}
}

func (g *envGen) Done() bool { return g.done }

func (g *envGen) Process(c *Context, in [][]float64, out []float64) {
	if g.release && !g.released {
		g.released = true
		if !g.done && g.seg <= g.env.ReleaseNode {
			g.enter(g.env.ReleaseNode)
		}
	}
	for i := range out {
		if g.done || g.holding {
			out[i] = g.level
			continue
		}
		g.pos++
		g.level = g.env.curve(g.seg).at(g.from, g.to, float64(g.pos)/float64(g.n))
		out[i] = g.level
		if g.pos >= g.n {
			g.level = g.to
			g.enter(g.seg + 1)
		}
	}
}

// AttackRelease returns an exponential attack-release envelope that rises
// towards 1 until released and is done once it has decayed below -80 dB.
func AttackRelease(attackTime, releaseTime float64) Handle {
	return New(&attackReleaseEnv{attackTime: attackTime, releaseTime: releaseTime})
}

type attackReleaseEnv struct {
	Params                  Params
	attackTime, releaseTime float64
	up, down                float64
	release                 bool
	x                       float64
}

func (e *attackReleaseEnv) InitAudio(p Params) {
	e.Params = p
	e.setAttackTime(e.attackTime)
	e.setReleaseTime(e.releaseTime)
}

func (e *attackReleaseEnv) setAttackTime(t float64) {
	e.attackTime = t
	e.up = math.Pow(.01, 1/(e.Params.SampleRate*t))
}

func (e *attackReleaseEnv) setReleaseTime(t float64) {
	e.releaseTime = t
	e.down = math.Pow(.01, 1/(e.Params.SampleRate*t))
}

func (e *attackReleaseEnv) Release() { e.release = true }

func (e *attackReleaseEnv) Process(c *Context, in [][]float64, out []float64) {
	for i := range out {
		if e.release {
			e.x *= e.down
		} else {
			e.x = 1 - (1-e.x)*e.up
		}
		out[i] = e.x
	}
}

func (e *attackReleaseEnv) Done() bool {
	return e.release && e.x < .0001
}
