// Package portaudio plays an engine through the default PortAudio devices.
//
// Initialize must be called before Open and Terminate after the last stream is
// closed.
package portaudio

import (
	"fmt"
	"log"
	"sync"

	pa "github.com/gordonklaus/portaudio"

	"github.com/gordonklaus/ugen"
)

func Initialize() error { return pa.Initialize() }
func Terminate() error  { return pa.Terminate() }

// A Stream feeds an engine's output to the default output device and, if the
// engine has input channels, the default input device to the engine.
type Stream struct {
	e       *ugen.Engine
	s       *pa.Stream
	in, out int
}

// Open opens a stream with e's channel counts, sample rate and block size.
func Open(e *ugen.Engine) (*Stream, error) {
	cfg := e.Config()
	s := &Stream{e: e, in: cfg.InputChannels, out: cfg.OutputChannels}
	var err error
	s.s, err = pa.OpenDefaultStream(cfg.InputChannels, cfg.OutputChannels, cfg.SampleRate, cfg.BlockSize, s.process)
	if err != nil {
		return nil, fmt.Errorf("open portaudio stream: %w", err)
	}
	return s, nil
}

func (s *Stream) process(in, out []float32) {
	if s.in > 0 {
		s.e.AudioIn(in, len(in)/s.in, s.in)
	}
	s.e.RenderBlock(out, len(out)/s.out, s.out)
}

func (s *Stream) Start() error { return s.s.Start() }
func (s *Stream) Stop() error  { return s.s.Stop() }
func (s *Stream) Close() error { return s.s.Close() }

var (
	mu       sync.Mutex
	controls []PlayControl
)

// Play plays e until Stop is called on the PlayControl returned by PlayAsync
// or StopAll is called.
func Play(e *ugen.Engine) {
	<-PlayAsync(e).Done
}

// PlayAsync opens and starts a stream for e.  Errors are logged and close Done
// at once.
func PlayAsync(e *ugen.Engine) PlayControl {
	c := PlayControl{make(chan struct{}, 1), make(chan struct{})}
	s, err := Open(e)
	if err == nil {
		if err = s.Start(); err != nil {
			if cerr := s.Close(); cerr != nil {
				log.Println(cerr)
			}
		}
	}
	if err != nil {
		log.Println(err)
		close(c.Done)
		return c
	}

	go func() {
		<-c.stop
		if err := s.Stop(); err != nil {
			log.Println(err)
		}
		if err := s.Close(); err != nil {
			log.Println(err)
		}
		close(c.Done)
	}()
	mu.Lock()
	controls = append(controls, c)
	mu.Unlock()
	return c
}

type PlayControl struct {
	stop, Done chan struct{}
}

func (c PlayControl) Stop() {
	select {
	case c.stop <- struct{}{}:
	default:
	}
}

// StopAll stops every stream started by PlayAsync and waits for them to close.
func StopAll() {
	mu.Lock()
	cs := controls
	controls = nil
	mu.Unlock()
	for _, c := range cs {
		c.Stop()
		<-c.Done
	}
}
