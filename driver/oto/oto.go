// Package oto plays an engine through oto, which needs no cgo on most
// platforms.  Only one Player may exist per process.
package oto

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	oto3 "github.com/ebitengine/oto/v3"

	"github.com/gordonklaus/ugen"
)

type Player struct {
	ctx *oto3.Context
	p   *oto3.Player
}

// Open creates the oto context for e's output format and a paused player
// reading from e.
func Open(e *ugen.Engine) (*Player, error) {
	cfg := e.Config()
	block := time.Duration(float64(cfg.BlockSize) / cfg.SampleRate * float64(time.Second))
	ctx, ready, err := oto3.NewContext(&oto3.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: cfg.OutputChannels,
		Format:       oto3.FormatFloat32LE,
		BufferSize:   2 * block,
	})
	if err != nil {
		return nil, fmt.Errorf("open oto context: %w", err)
	}
	<-ready
	return &Player{ctx: ctx, p: ctx.NewPlayer(NewReader(e))}, nil
}

func (p *Player) Start()        { p.p.Play() }
func (p *Player) Stop()         { p.p.Pause() }
func (p *Player) Playing() bool { return p.p.IsPlaying() }
func (p *Player) Close() error  { return p.p.Close() }

// Err returns the first error from the player or the device, if any.
func (p *Player) Err() error {
	if err := p.p.Err(); err != nil {
		return err
	}
	return p.ctx.Err()
}

// A Reader renders an engine one block at a time as interleaved little-endian
// float32 samples.  It never returns io.EOF.
type Reader struct {
	e        *ugen.Engine
	channels int
	frames   int
	block    []float32
	buf      []byte
	pos      int
}

func NewReader(e *ugen.Engine) *Reader {
	cfg := e.Config()
	return &Reader{
		e:        e,
		channels: cfg.OutputChannels,
		frames:   cfg.BlockSize,
		block:    make([]float32, cfg.OutputChannels*cfg.BlockSize),
	}
}

func (r *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.pos == len(r.buf) {
			r.render()
		}
		c := copy(p[n:], r.buf[r.pos:])
		r.pos += c
		n += c
	}
	return n, nil
}

func (r *Reader) render() {
	r.e.RenderBlock(r.block, r.frames, r.channels)
	r.buf = r.buf[:0]
	for _, x := range r.block {
		r.buf = binary.LittleEndian.AppendUint32(r.buf, math.Float32bits(x))
	}
	r.pos = 0
}
