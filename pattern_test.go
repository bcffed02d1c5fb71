package ugen_test

import (
	"errors"
	"testing"

	"github.com/gordonklaus/ugen"
	"github.com/gordonklaus/ugen/internal/ugentest"
)

type pluck struct{}

type pluckNote struct {
	Pitch, Amp float64
}

func (pluck) Play(n pluckNote) ugen.Handle {
	env := ugen.EnvGen(ugen.ASR(.01, n.Amp, .01, ugen.Linear))
	return ugen.Sine(ugen.C(ugen.MIDICPS(n.Pitch))).Mul(env)
}

func TestPatternPlayer(t *testing.T) {
	e := ugentest.Engine(t, testConfig(1000, 10, 1))
	p, err := ugen.NewPatternPlayer(e, &ugen.Pattern{
		Name: "test",
		Notes: []*ugen.Note{
			{Time: .05, Duration: .02, Attributes: map[string]float64{"Pitch": 60, "Amp": .5}},
			{Time: 0, Duration: .03, Attributes: map[string]float64{"Pitch": 67, "Amp": .5}},
		},
	}, pluck{})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	if p.Done() {
		t.Fatal("done before rendering")
	}
	ugentest.Render(e, 10, 1)
	if e.Voices() != 1 {
		t.Fatalf("got %d voices after the first block, want 1", e.Voices())
	}
	for range 10 {
		ugentest.Render(e, 10, 1)
	}
	if !p.Done() {
		t.Errorf("not done: voice states %v %v", p.Voices()[0].State(), p.Voices()[1].State())
	}
	if e.Voices() != 0 {
		t.Errorf("got %d voices after the pattern ended", e.Voices())
	}
}

func TestPatternPlayerAttributes(t *testing.T) {
	e := ugentest.Engine(t, testConfig(1000, 10, 1))
	for name, attrs := range map[string]map[string]float64{
		"unknown": {"Pitch": 60, "Amp": 1, "Pan": 0},
		"missing": {"Pitch": 60},
	} {
		pat := &ugen.Pattern{Name: name, Notes: []*ugen.Note{{Attributes: attrs}}}
		if _, err := ugen.NewPatternPlayer(e, pat, pluck{}); !errors.Is(err, ugen.ErrInvalidParams) {
			t.Errorf("%s: got %v, want ErrInvalidParams", name, err)
		}
	}
}

func TestIsInstrument(t *testing.T) {
	if !ugen.IsInstrument(pluck{}) {
		t.Error("pluck should be an instrument")
	}
	if ugen.IsInstrument(struct{}{}) {
		t.Error("a type without Play is not an instrument")
	}
}
