package ugen

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// StalePolicy chooses what the render path emits for a block it could not
// compute because the control side held the engine lock.
type StalePolicy int

const (
	// StaleRepeat emits the previous block again.
	StaleRepeat StalePolicy = iota
	// StaleSilence emits zeros.
	StaleSilence
)

type Config struct {
	OutputChannels int
	InputChannels  int
	SampleRate     float64
	BlockSize      int
	Stale          StalePolicy
	Logger         *log.Logger
}

func DefaultConfig() Config {
	return Config{
		OutputChannels: 2,
		SampleRate:     44100,
		BlockSize:      512,
	}
}

func (c Config) Params() Params {
	return Params{SampleRate: c.SampleRate, BlockSize: c.BlockSize}
}

// Stats are counters kept by the render path.
type Stats struct {
	Blocks uint64 // blocks computed
	Stale  uint64 // callbacks that found the engine locked
	Voices int    // voices in the mixer after the last computed block
}

// An Engine renders the sum of its voices for an audio driver.
//
// The driver calls RenderBlock (or RenderSeparated) once per hardware buffer
// from its render goroutine.  Everything else is called from control
// goroutines and takes the engine lock for a short, allocation-only critical
// section.  The render path only ever tries the lock: if a control goroutine
// holds it, the callback emits the previous (or a silent) buffer instead of
// waiting.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	log    *log.Logger
	ready  bool
	closed bool

	clock   Clock
	ctx     *Context
	mixer   *Mixer
	events  EventDelay
	pending int

	// Owned by the render goroutine.
	last   []float32
	input  [][]float64
	inputN int

	blocks atomic.Uint64
	stale  atomic.Uint64
	voices atomic.Int64
}

// NewEngine returns an engine set up with cfg.
func NewEngine(cfg Config) (*Engine, error) {
	e := &Engine{cfg: cfg, log: cfg.Logger}
	if e.log == nil {
		e.log = log.Default()
	}
	if err := e.Setup(cfg.OutputChannels, cfg.InputChannels, cfg.SampleRate, cfg.BlockSize); err != nil {
		return nil, err
	}
	return e, nil
}

// Setup (re)configures the engine.  It must not be called while a driver is
// rendering.  Voices already playing are kept and their nodes re-initialized
// for the new sample rate and block size.
func (e *Engine) Setup(outputChannels, inputChannels int, sampleRate float64, blockSize int) error {
	p := Params{SampleRate: sampleRate, BlockSize: blockSize}
	if outputChannels <= 0 || inputChannels < 0 || !p.Valid() {
		return fmt.Errorf("setup %d out, %d in, %g Hz, %d frames: %w",
			outputChannels, inputChannels, sampleRate, blockSize, ErrInvalidParams)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.cfg.OutputChannels = outputChannels
	e.cfg.InputChannels = inputChannels
	e.cfg.SampleRate = sampleRate
	e.cfg.BlockSize = blockSize
	if e.log == nil {
		e.log = log.Default()
	}

	e.ctx = NewContext(p)
	old := e.mixer
	e.mixer = NewMixer(outputChannels)
	e.mixer.reserve(0, blockSize)
	if old != nil {
		for _, v := range old.Voices() {
			v.mixing = false
			e.mixer.Add(v)
			e.prepare(v)
		}
	}
	Init(&e.events, p)
	e.last = make([]float32, blockSize*outputChannels)
	e.input = make([][]float64, inputChannels)
	for ch := range e.input {
		e.input[ch] = make([]float64, blockSize)
	}
	e.ready = true
	e.log.Printf("ugen: engine set up: %d out, %d in, %g Hz, %d frames", outputChannels, inputChannels, sampleRate, blockSize)
	return nil
}

func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Params returns the current render parameters.  Like Config, it takes the
// engine lock.
func (e *Engine) Params() Params { return e.Config().Params() }

func (e *Engine) check() error {
	if e.closed {
		return ErrClosed
	}
	if !e.ready {
		return ErrNotSetup
	}
	return nil
}

// Play registers h as a new voice and returns it.  The voice finishes when
// every channel of h has ended.
func (e *Engine) Play(h Handle) (*Voice, error) {
	v := NewVoice(h)
	return v, e.Add(v)
}

// Add registers v.  Adding a voice that is already playing is an error.
func (e *Engine) Add(v *Voice) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return err
	}
	return e.add(v)
}

func (e *Engine) add(v *Voice) error {
	if err := e.mixer.Add(v); err != nil {
		return err
	}
	if !v.watched {
		e.prepare(v)
	}
	return nil
}

// prepare initializes v's graph for the current Params and binds v to its
// end.  It runs with the lock held, on the control side for Add, so that the
// render path does not allocate for a new voice.
func (e *Engine) prepare(v *Voice) {
	seen := map[*Node]bool{}
	for _, n := range v.Out().nodes {
		n.prepare(e.ctx.Params, seen)
	}
	v.watch()
}

// schedule prepares voices that a scheduled event will add, so that the add
// on the render path only links them in.  It must run before the events are
// scheduled.
func (e *Engine) schedule(vs []*Voice) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return err
	}
	e.mixer.reserve(len(vs), e.cfg.BlockSize)
	for _, v := range vs {
		e.prepare(v)
	}
	return nil
}

// Remove unregisters v immediately, without releasing it.
func (e *Engine) Remove(v *Voice) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mixer != nil && e.mixer.Remove(v)
}

// Release starts the release phase of v.  Releasing a voice that is already
// releasing or finished does nothing.
func (e *Engine) Release(v *Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v.release()
}

func (e *Engine) ReleaseAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mixer == nil {
		return
	}
	for _, v := range e.mixer.Voices() {
		v.release()
	}
}

// Voices returns the number of voices in the mixer.
func (e *Engine) Voices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mixer == nil {
		return 0
	}
	return e.mixer.Len()
}

// Do runs f with the engine lock held.
func (e *Engine) Do(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f()
}

// After runs f on the render goroutine, with the engine lock held, at the
// first block boundary at least t seconds from now.  f must not call the
// locking Engine methods.
func (e *Engine) After(t float64, f func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.check(); err != nil {
		return err
	}
	e.events.Delay(t, f)
	return nil
}

// ReleaseAfter releases v t seconds from now.
func (e *Engine) ReleaseAfter(v *Voice, t float64) error {
	return e.After(t, v.release)
}

func (e *Engine) Stats() Stats {
	s := Stats{
		Blocks: e.blocks.Load(),
		Stale:  e.stale.Load(),
		Voices: int(e.voices.Load()),
	}
	return s
}

// Close unregisters every voice.  Rendering after Close emits silence.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	if e.mixer != nil {
		for _, v := range e.mixer.Voices() {
			e.mixer.drop(v)
		}
		e.mixer.voices = nil
	}
	if n := e.stale.Load(); n > 0 {
		e.log.Printf("ugen: engine closed; %d of %d blocks were stale", n, n+e.blocks.Load())
	} else {
		e.log.Printf("ugen: engine closed after %d blocks", e.blocks.Load())
	}
	return nil
}

// AudioIn stores an interleaved input block for the next RenderBlock.  Like
// RenderBlock it must only be called from the render goroutine.
func (e *Engine) AudioIn(in []float32, frames, channels int) {
	if channels <= 0 || len(e.input) == 0 {
		return
	}
	frames = min(frames, len(in)/channels)
	for ch, buf := range e.input {
		if cap(buf) < frames {
			buf = make([]float64, frames)
		}
		buf = buf[:frames]
		src := wrap(ch, channels)
		for i := range buf {
			buf[i] = float64(in[i*channels+src])
		}
		e.input[ch] = buf
	}
	e.inputN = frames
}

// RenderBlock fills out with frames interleaved frames of channels channels.
// It never blocks.  Engine channels are wrapped to fill wider outputs.
func (e *Engine) RenderBlock(out []float32, frames, channels int) {
	if channels <= 0 {
		return
	}
	n := min(frames*channels, len(out))
	if !e.mu.TryLock() {
		e.stale.Add(1)
		e.emitStale(out[:n])
		return
	}
	defer e.mu.Unlock()

	if e.check() != nil {
		clear(out[:n])
		return
	}
	sum := e.render(frames)
	if cap(e.last) < n {
		e.last = make([]float32, n)
	}
	e.last = e.last[:n]
	for i := 0; i < n; i++ {
		f, ch := i/channels, i%channels
		e.last[i] = float32(sum[wrap(ch, len(sum))][f])
	}
	copy(out, e.last)
}

// RenderSeparated is RenderBlock for drivers with one buffer per channel.
func (e *Engine) RenderSeparated(out [][]float32, frames int) {
	if !e.mu.TryLock() {
		e.stale.Add(1)
		e.emitStaleSeparated(out, frames)
		return
	}
	defer e.mu.Unlock()

	if e.check() != nil {
		for _, o := range out {
			clear(o)
		}
		return
	}
	sum := e.render(frames)
	channels := len(out)
	if cap(e.last) < frames*channels {
		e.last = make([]float32, frames*channels)
	}
	e.last = e.last[:frames*channels]
	for ch, o := range out {
		s := sum[wrap(ch, len(sum))]
		for i := 0; i < frames && i < len(o); i++ {
			o[i] = float32(s[i])
			e.last[i*channels+ch] = o[i]
		}
	}
}

func (e *Engine) render(frames int) [][]float64 {
	e.events.Step(e.pending)
	e.pending = frames

	e.ctx.Begin(e.clock.Next(), frames)
	if e.inputN >= frames {
		e.ctx.SetInput(e.input)
	} else {
		e.ctx.SetInput(nil)
	}
	sum := e.mixer.Mix(e.ctx)
	e.blocks.Add(1)
	e.voices.Store(int64(e.mixer.Len()))
	return sum
}

func (e *Engine) emitStale(out []float32) {
	if e.cfg.Stale == StaleSilence || len(e.last) != len(out) {
		clear(out)
		return
	}
	copy(out, e.last)
}

func (e *Engine) emitStaleSeparated(out [][]float32, frames int) {
	channels := len(out)
	repeat := e.cfg.Stale == StaleRepeat && len(e.last) == frames*channels
	for ch, o := range out {
		for i := 0; i < frames && i < len(o); i++ {
			if repeat {
				o[i] = e.last[i*channels+ch]
			} else {
				o[i] = 0
			}
		}
	}
}
