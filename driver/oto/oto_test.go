package oto

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gordonklaus/ugen"
	"github.com/gordonklaus/ugen/internal/ugentest"
)

func TestReader(t *testing.T) {
	cfg := ugen.DefaultConfig()
	cfg.SampleRate = 100
	cfg.BlockSize = 3
	e := ugentest.Engine(t, cfg)
	if _, err := e.Play(ugen.C(.5, -.25)); err != nil {
		t.Fatal(err)
	}

	// Odd read sizes split samples and blocks.
	r := NewReader(e)
	var b []byte
	for _, n := range []int{5, 1, 17, 8, 9} {
		p := make([]byte, n)
		if m, err := r.Read(p); m != n || err != nil {
			t.Fatalf("Read(%d) = %d, %v", n, m, err)
		}
		b = append(b, p...)
	}

	for i := 0; i+4 <= len(b); i += 4 {
		x := math.Float32frombits(binary.LittleEndian.Uint32(b[i:]))
		want := float32(.5)
		if i/4%2 == 1 {
			want = -.25
		}
		if x != want {
			t.Fatalf("sample %d: got %v, want %v", i/4, x, want)
		}
	}
	// 40 bytes is 10 samples, which takes two blocks of six.
	if s := e.Stats(); s.Blocks != 2 {
		t.Errorf("got %d blocks rendered, want 2", s.Blocks)
	}
}
