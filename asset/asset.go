// Package asset loads sound files into sample tables for wavetables, impulse
// responses and one-shot playback.
//
// WAV, AIFF, MP3 and Ogg Vorbis files are recognized by extension.  Samples
// are normalized to [-1, 1).
package asset

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"golang.org/x/sync/errgroup"

	"github.com/gordonklaus/ugen"
)

var (
	ErrUnsupportedFormat = errors.New("asset: unsupported format")
	ErrInvalidFile       = errors.New("asset: invalid file")
)

// A Table is a decoded sound, one array per channel.
type Table struct {
	Name       string
	SampleRate float64
	Channels   []ugen.Samples
}

// Frames returns the length of the table in samples per channel.
func (t *Table) Frames() int {
	if len(t.Channels) == 0 {
		return 0
	}
	return t.Channels[0].Len()
}

// Seconds returns the duration of the table.
func (t *Table) Seconds() float64 {
	if t.SampleRate == 0 {
		return 0
	}
	return float64(t.Frames()) / t.SampleRate
}

// Mono returns the average of the table's channels.
func (t *Table) Mono() ugen.Samples {
	if len(t.Channels) == 1 {
		return t.Channels[0].Share()
	}
	var sum ugen.Samples
	for _, c := range t.Channels {
		sum = sum.Add(c)
	}
	return sum.Mul(ugen.FromValues(1 / float64(len(t.Channels))))
}

// LoadFile opens and loads the file at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(filepath.Base(path), f)
}

// LoadAll loads the files at paths concurrently.  The tables are returned in
// the order of paths; the first error cancels the remaining loads.
func LoadAll(ctx context.Context, paths ...string) ([]*Table, error) {
	tables := make([]*Table, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := LoadFile(path)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Load decodes r, choosing the decoder by the extension of name.
func Load(name string, r io.ReadSeeker) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".wav", ".wave":
		t, err = LoadWAV(r)
	case ".aif", ".aiff":
		t, err = LoadAIFF(r)
	case ".mp3":
		t, err = LoadMP3(r)
	case ".ogg", ".oga":
		t, err = LoadOgg(r)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	t.Name = name
	return t, nil
}

func LoadWAV(r io.ReadSeeker) (*Table, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("not a wav file: %w", ErrInvalidFile)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	// 8-bit WAV is unsigned.
	return fromInts(buf, int(d.BitDepth), d.BitDepth == 8)
}

// LoadAIFF reads the whole of an AIFF stream in chunks.
func LoadAIFF(r io.ReadSeeker) (*Table, error) {
	d := aiff.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("not an aiff file: %w", ErrInvalidFile)
	}
	d.ReadInfo()
	format := d.Format()
	if format == nil || format.NumChannels == 0 {
		return nil, fmt.Errorf("aiff layout: %w", ErrUnsupportedFormat)
	}
	all := &audio.IntBuffer{Format: format}
	chunk := &audio.IntBuffer{Format: format, Data: make([]int, 4096*format.NumChannels)}
	for {
		n, err := d.PCMBuffer(chunk)
		all.Data = append(all.Data, chunk.Data[:n]...)
		if err != nil && err != io.EOF {
			return nil, err
		}
		if n == 0 || err == io.EOF {
			break
		}
	}
	return fromInts(all, int(d.BitDepth), false)
}

func fromInts(buf *audio.IntBuffer, bitDepth int, unsigned bool) (*Table, error) {
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("no channels: %w", ErrInvalidFile)
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%d bit samples: %w", bitDepth, ErrUnsupportedFormat)
	}
	scale := 1 / float64(int64(1)<<(bitDepth-1))
	offset := 0
	if unsigned {
		offset = 1 << (bitDepth - 1)
	}
	return deinterleave(buf.Format.NumChannels, float64(buf.Format.SampleRate), len(buf.Data), func(i int) float64 {
		return float64(buf.Data[i]-offset) * scale
	}), nil
}

// LoadMP3 decodes an MP3 stream.  go-mp3 always produces 16-bit stereo.
func LoadMP3(r io.Reader) (*Table, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, err
	}
	return deinterleave(2, float64(d.SampleRate()), len(pcm)/2, func(i int) float64 {
		return float64(int16(binary.LittleEndian.Uint16(pcm[2*i:]))) / 32768
	}), nil
}

func LoadOgg(r io.Reader) (*Table, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format.Channels <= 0 {
		return nil, fmt.Errorf("no channels: %w", ErrInvalidFile)
	}
	return deinterleave(format.Channels, float64(format.SampleRate), len(data), func(i int) float64 {
		return float64(data[i])
	}), nil
}

func deinterleave(channels int, sampleRate float64, n int, sample func(i int) float64) *Table {
	frames := n / channels
	t := &Table{SampleRate: sampleRate, Channels: make([]ugen.Samples, channels)}
	for ch := range t.Channels {
		a := ugen.WithSize[float64](frames)
		d := a.Data()
		for i := range d {
			d[i] = sample(i*channels + ch)
		}
		t.Channels[ch] = a
	}
	return t
}
