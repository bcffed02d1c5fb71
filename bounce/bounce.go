// Package bounce renders an engine offline.
//
// Rendering goes through Engine.RenderBlock like a live driver, so it must
// not overlap with control calls on other goroutines; a contended block would
// be rendered stale.
package bounce

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gordonklaus/ugen"
)

var ErrBitDepth = errors.New("bounce: bit depth must be 16, 24 or 32")

// Render renders seconds of e's output as interleaved frames.
func Render(e *ugen.Engine, seconds float64) []float32 {
	var out []float32
	each(e, seconds, func(block []float32) { out = append(out, block...) })
	return out
}

func each(e *ugen.Engine, seconds float64, f func([]float32)) {
	cfg := e.Config()
	ch := cfg.OutputChannels
	frames := int(math.Round(seconds * cfg.SampleRate))
	block := make([]float32, cfg.BlockSize*ch)
	for done := 0; done < frames; done += cfg.BlockSize {
		n := min(cfg.BlockSize, frames-done)
		e.RenderBlock(block[:n*ch], n, ch)
		f(block[:n*ch])
	}
}

// WriteWAV renders seconds of e's output to w as PCM WAV.  Samples are
// clipped to [-1, 1].
func WriteWAV(w io.WriteSeeker, e *ugen.Engine, seconds float64, bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%d: %w", bitDepth, ErrBitDepth)
	}
	cfg := e.Config()
	enc := wav.NewEncoder(w, int(cfg.SampleRate), bitDepth, cfg.OutputChannels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: cfg.OutputChannels, SampleRate: int(cfg.SampleRate)},
		SourceBitDepth: bitDepth,
	}
	scale := float64(int64(1)<<(bitDepth-1) - 1)

	var err error
	each(e, seconds, func(block []float32) {
		if err != nil {
			return
		}
		buf.Data = buf.Data[:0]
		for _, x := range block {
			buf.Data = append(buf.Data, int(math.Round(max(-1, min(1, float64(x)))*scale)))
		}
		err = enc.Write(buf)
	})
	if err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}
