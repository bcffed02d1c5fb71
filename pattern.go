package ugen

import (
	"fmt"
	"reflect"
	"slices"
	"sync/atomic"
)

type Pattern struct {
	Name  string
	Notes []*Note
}

// A Note starts a voice at Time seconds after the pattern starts and releases
// it Duration seconds later.  A Note with zero Duration is never released and
// must end by itself.
type Note struct {
	Time, Duration float64
	Attributes     map[string]float64
}

// A PatternPlayer plays a Pattern on an Engine with an instrument.
//
// An instrument is any value with a method Play(note) Handle, where note is a
// struct type with only exported float64 fields.  Each Note's Attributes must
// name exactly those fields.
type PatternPlayer struct {
	engine  *Engine
	pattern *Pattern
	inst    any
	play    reflect.Value

	voices  []*Voice
	started atomic.Int32
}

func NewPatternPlayer(e *Engine, pattern *Pattern, inst any) (*PatternPlayer, error) {
	play, err := InstrumentPlayMethod(inst)
	if err != nil {
		return nil, err
	}
	p := &PatternPlayer{engine: e, pattern: pattern, inst: inst, play: play}
	if err := p.check(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PatternPlayer) check() error {
	noteType := p.play.Type().In(0)
	for _, n := range p.pattern.Notes {
		for name := range n.Attributes {
			if _, ok := noteType.FieldByName(name); !ok {
				return fmt.Errorf("pattern %s: instrument %T has no attribute %s: %w", p.pattern.Name, p.inst, name, ErrInvalidParams)
			}
		}
		for i := 0; i < noteType.NumField(); i++ {
			name := noteType.Field(i).Name
			if _, ok := n.Attributes[name]; !ok {
				return fmt.Errorf("pattern %s: note at %gs has no attribute %s for instrument %T: %w", p.pattern.Name, n.Time, name, p.inst, ErrInvalidParams)
			}
		}
	}
	return nil
}

// Start builds a voice for every note and schedules it on the engine.  The
// graphs are built here, on the calling goroutine; the render goroutine only
// adds and releases them, block-quantized.
func (p *PatternPlayer) Start() error {
	notes := slices.Clone(p.pattern.Notes)
	slices.SortStableFunc(notes, func(a, b *Note) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})

	p.voices = p.voices[:0]
	p.started.Store(0)
	for _, n := range notes {
		note := reflect.New(p.play.Type().In(0)).Elem()
		for name, val := range n.Attributes {
			note.FieldByName(name).SetFloat(val)
		}
		h := p.play.Call([]reflect.Value{note})[0].Interface().(Handle)
		p.voices = append(p.voices, NewVoice(h))
	}
	if err := p.engine.schedule(p.voices); err != nil {
		return err
	}

	for i, n := range notes {
		v := p.voices[i]
		err := p.engine.After(n.Time, func() {
			p.started.Add(1)
			if err := p.engine.add(v); err != nil {
				v.finish()
			}
		})
		if err != nil {
			return err
		}
		if n.Duration > 0 {
			if err := p.engine.ReleaseAfter(v, n.Time+n.Duration); err != nil {
				return err
			}
		}
	}
	return nil
}

// Done reports whether every note has started and finished.
func (p *PatternPlayer) Done() bool {
	if int(p.started.Load()) < len(p.voices) {
		return false
	}
	for _, v := range p.voices {
		if v.State() != Finished {
			return false
		}
	}
	return true
}

// Voices returns the voices built by Start, in time order.
func (p *PatternPlayer) Voices() []*Voice { return p.voices }

// InstrumentPlayMethod returns inst's Play method, checking its signature.
func InstrumentPlayMethod(inst any) (reflect.Value, error) {
	m := reflect.ValueOf(inst).MethodByName("Play")
	if !m.IsValid() {
		return m, fmt.Errorf("type %T must have a method named Play: %w", inst, ErrInvalidParams)
	}
	if m.Type().NumIn() != 1 || m.Type().NumOut() != 1 || m.Type().Out(0) != reflect.TypeFor[Handle]() {
		return m, fmt.Errorf("method (%T).Play must take a single parameter and return a Handle: %w", inst, ErrInvalidParams)
	}
	n := m.Type().In(0)
	if n.Kind() != reflect.Struct {
		return m, fmt.Errorf("the parameter to method (%T).Play must be a struct: %w", inst, ErrInvalidParams)
	}
	for i := 0; i < n.NumField(); i++ {
		f := n.Field(i)
		if f.Type.Kind() != reflect.Float64 || !f.IsExported() {
			return m, fmt.Errorf("the parameter to method (%T).Play must only have exported float64 fields: %w", inst, ErrInvalidParams)
		}
	}
	return m, nil
}

func IsInstrument(inst any) bool {
	_, err := InstrumentPlayMethod(inst)
	return err == nil
}
