package asset

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gordonklaus/ugen"
	"github.com/gordonklaus/ugen/bounce"
	"github.com/gordonklaus/ugen/internal/ugentest"
)

func writeWAV(t *testing.T, dir, name string, h ugen.Handle) string {
	t.Helper()
	cfg := ugen.DefaultConfig()
	cfg.SampleRate = 1000
	cfg.BlockSize = 50
	e := ugentest.Engine(t, cfg)
	if _, err := e.Play(h); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := bounce.WriteWAV(f, e, .1, 16); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWAV(t *testing.T) {
	path := writeWAV(t, t.TempDir(), "tone.WAV", ugen.C(.5, -.25))
	tab, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Name != "tone.WAV" || tab.SampleRate != 1000 || len(tab.Channels) != 2 || tab.Frames() != 100 {
		t.Fatalf("got %s: %g Hz, %d channels, %d frames", tab.Name, tab.SampleRate, len(tab.Channels), tab.Frames())
	}
	if x := tab.Channels[0].At(50); math.Abs(x-.5) > 1e-4 {
		t.Errorf("channel 0: got %v, want .5", x)
	}
	if x := tab.Channels[1].At(99); math.Abs(x+.25) > 1e-4 {
		t.Errorf("channel 1: got %v, want -.25", x)
	}
	if x := tab.Mono().At(0); math.Abs(x-.125) > 1e-4 {
		t.Errorf("mono: got %v, want .125", x)
	}
	if s := tab.Seconds(); s != .1 {
		t.Errorf("got %vs, want .1s", s)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("notes.txt", bytes.NewReader(nil)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load("junk.wav", bytes.NewReader([]byte("not a riff file"))); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("got %v, want ErrInvalidFile", err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	a := writeWAV(t, dir, "a.wav", ugen.C(.1))
	b := writeWAV(t, dir, "b.wav", ugen.C(.2))
	tabs, err := LoadAll(context.Background(), a, b)
	if err != nil {
		t.Fatal(err)
	}
	if tabs[0].Name != "a.wav" || tabs[1].Name != "b.wav" {
		t.Errorf("got %s, %s out of order", tabs[0].Name, tabs[1].Name)
	}

	if _, err := LoadAll(context.Background(), a, filepath.Join(dir, "missing.wav")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want a not-exist error", err)
	}
}

func TestPlayer(t *testing.T) {
	tab := &Table{SampleRate: 500, Channels: []ugen.Samples{
		ugen.FromValues(0., 1, 2, 3),
		ugen.FromValues(10., 10, 10, 10),
	}}
	h := tab.Player(false)
	if h.NumChannels() != 2 {
		t.Fatalf("got %d channels, want 2", h.NumChannels())
	}

	c := ugen.NewContext(ugen.Params{SampleRate: 1000, BlockSize: 10})
	c.Begin(1, 10)
	out := ugen.Evaluate(h, c)
	ugentest.Near(t, out[0], []float64{0, .5, 1, 1.5, 2, 2.5, 3, 1.5, 0, 0}, 1e-12)
	if out[1][0] != 10 || !h.Done() {
		t.Errorf("got channel 1 %v, done %v", out[1], h.Done())
	}

	loop := tab.Player(true)
	c.Begin(2, 10)
	out = ugen.Evaluate(loop, c)
	ugentest.Near(t, out[0][6:10], []float64{3, 1.5, 0, .5}, 1e-12)
	if loop.Done() {
		t.Error("looping player ended")
	}
}
