package ugen_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/gordonklaus/ugen"
	"github.com/gordonklaus/ugen/internal/ugentest"
)

func testConfig(sampleRate float64, blockSize, channels int) ugen.Config {
	cfg := ugen.DefaultConfig()
	cfg.SampleRate = sampleRate
	cfg.BlockSize = blockSize
	cfg.OutputChannels = channels
	return cfg
}

func TestSharedNodeComputedOncePerBlock(t *testing.T) {
	k := &ugentest.Counter{Value: 1}
	shared := ugen.New(k)
	a := shared.MulX(2)
	b := shared.AddX(3).Sub(shared)

	c := ugen.NewContext(ugen.Params{SampleRate: 100, BlockSize: 4})
	var clock ugen.Clock
	c.Begin(clock.Next(), 4)
	outA := ugen.Evaluate(a, c)[0]
	outB := ugen.Evaluate(b, c)[0]
	if k.Calls != 1 {
		t.Fatalf("got %d calls in one block, want 1", k.Calls)
	}
	ugentest.Near(t, outA, ugentest.Fill(4, 2.), 0)
	ugentest.Near(t, outB, ugentest.Fill(4, 3.), 0)
	if got, want := ugen.Evaluate(shared, c)[0], shared.Node(0).ProcessBlock(c); &got[0] != &want[0] {
		t.Error("expected the cached buffer on re-read")
	}

	c.Begin(clock.Next(), 4)
	ugen.Evaluate(a, c)
	ugen.Evaluate(b, c)
	if k.Calls != 2 {
		t.Fatalf("got %d calls after two blocks, want 2", k.Calls)
	}
}

func TestChannelWrap(t *testing.T) {
	c := ugen.NewContext(ugen.Params{SampleRate: 1, BlockSize: 1})
	c.Begin(1, 1)

	mono := ugen.New(&ugentest.Counter{}, ugen.C(1)).Node(0).ForChannel(3)
	if got := mono.ProcessBlock(c)[0]; got != 1 {
		t.Errorf("channel 3 of a mono input: got %v, want 1", got)
	}
	three := ugen.New(&ugentest.Counter{}, ugen.C(1, 2, 3)).Node(0).ForChannel(4)
	if got := three.ProcessBlock(c)[0]; got != 2 {
		t.Errorf("channel 4 of a 3-channel input: got %v, want channel 1 (2)", got)
	}
}

func TestHandleChannelWrap(t *testing.T) {
	three := ugen.C(10, 20, 30)
	for ch, want := range map[int]int{0: 0, 1: 1, 2: 2, 3: 0, 4: 1, -1: 2} {
		if three.Channel(ch).Node(0) != three.Node(want) {
			t.Errorf("Channel(%d): want channel %d", ch, want)
		}
	}
}

func TestMultichannelExpansion(t *testing.T) {
	h := ugen.C(1, 2).Mul(ugen.C(10, 20, 30))
	if h.NumChannels() != 3 {
		t.Fatalf("got %d channels, want 3", h.NumChannels())
	}
	c := ugen.NewContext(ugen.Params{SampleRate: 1, BlockSize: 1})
	c.Begin(1, 1)
	out := ugen.Evaluate(h, c)
	for ch, want := range []float64{10, 40, 30} {
		if out[ch][0] != want {
			t.Errorf("channel %d: got %v, want %v", ch, out[ch][0], want)
		}
	}
}

func TestNullPropagation(t *testing.T) {
	x := ugen.C(2)
	null := ugen.Null()
	for name, tc := range map[string]struct {
		h        ugen.Handle
		wantNull bool
		want     float64
	}{
		"x+null":   {x.Add(null), false, 2},
		"null+x":   {null.Add(x), false, 2},
		"x-null":   {x.Sub(null), false, 2},
		"null-x":   {null.Sub(x), false, -2},
		"x*null":   {x.Mul(null), true, 0},
		"null/x":   {null.Div(x), true, 0},
		"null.mix": {null.Mix(), true, 0},
		"-null":    {null.Neg(), true, 0},
	} {
		if tc.h.IsNull() != tc.wantNull {
			t.Errorf("%s: IsNull = %v", name, tc.h.IsNull())
			continue
		}
		if tc.wantNull {
			continue
		}
		c := ugen.NewContext(ugen.Params{SampleRate: 1, BlockSize: 1})
		c.Begin(1, 1)
		if got := ugen.Evaluate(tc.h, c)[0][0]; got != tc.want {
			t.Errorf("%s: got %v, want %v", name, got, tc.want)
		}
	}
}

func TestNullInputIsSilence(t *testing.T) {
	h := ugen.New(&ugentest.Counter{Value: 1}, ugen.Channels(ugen.Null(), ugen.C(5)))
	c := ugen.NewContext(ugen.Params{SampleRate: 1, BlockSize: 2})
	c.Begin(1, 2)
	out := ugen.Evaluate(h, c)
	if out[0][1] != 1 || out[1][1] != 6 {
		t.Errorf("got %v, want [[1 1] [6 6]]", out)
	}
}

func TestVoiceLifecycle(t *testing.T) {
	e := ugentest.Engine(t, testConfig(1000, 10, 2))
	v, err := e.Play(ugen.Sine(ugen.C(100)).Mul(ugen.EnvGen(ugen.ASR(.01, 1, .02, ugen.Linear))))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		ugentest.Render(e, 10, 2)
	}
	if v.State() != ugen.Playing || !v.IsAlive() || e.Voices() != 1 {
		t.Fatalf("got %v, alive %v, %d voices", v.State(), v.IsAlive(), e.Voices())
	}

	e.Release(v)
	if v.State() != ugen.Releasing {
		t.Fatalf("got %v after release, want releasing", v.State())
	}
	e.Release(v)

	ugentest.Render(e, 10, 2)
	if !v.IsAlive() {
		t.Fatal("finished halfway through the release")
	}
	ugentest.Render(e, 10, 2)
	if v.IsAlive() || v.State() != ugen.Finished {
		t.Fatalf("got alive %v, %v after release segment", v.IsAlive(), v.State())
	}
	if n := e.Voices(); n != 0 {
		t.Fatalf("got %d voices after the finishing pass, want 0", n)
	}

	e.Release(v)
	if v.State() != ugen.Finished {
		t.Errorf("release of a finished voice changed its state to %v", v.State())
	}
	out := ugentest.Render(e, 10, 2)
	ugentest.Near(t, out, make([]float32, 20), 0)
}

func TestVoiceFinishesWhenAllChannelsEnd(t *testing.T) {
	e := ugentest.Engine(t, testConfig(100, 10, 2))
	short, long := &ugentest.Finite{Blocks: 1}, &ugentest.Finite{Blocks: 3}
	v, _ := e.Play(ugen.Channels(ugen.New(short), ugen.New(long)))
	ugentest.Render(e, 10, 2)
	ugentest.Render(e, 10, 2)
	if !v.IsAlive() {
		t.Fatal("finished with a channel still playing")
	}
	ugentest.Render(e, 10, 2)
	if v.IsAlive() {
		t.Fatal("alive after every channel ended")
	}
}

func TestRemoveAndAddTwice(t *testing.T) {
	e := ugentest.Engine(t, testConfig(100, 10, 1))
	v, _ := e.Play(ugen.C(1))
	if err := e.Add(v); !errors.Is(err, ugen.ErrVoicePlaying) {
		t.Errorf("got %v adding twice, want ErrVoicePlaying", err)
	}
	if !e.Remove(v) || e.Remove(v) {
		t.Error("expected the first Remove only to succeed")
	}
	ugentest.Near(t, ugentest.Render(e, 10, 1), make([]float32, 10), 0)
}

func TestReaddedVoiceFinishes(t *testing.T) {
	e := ugentest.Engine(t, testConfig(100, 10, 1))
	v, _ := e.Play(ugen.New(&ugentest.Finite{Blocks: 2}))
	ugentest.Render(e, 10, 1)
	e.Remove(v)
	if err := e.Add(v); err != nil {
		t.Fatal(err)
	}
	ugentest.Render(e, 10, 1)
	if v.State() != ugen.Finished || v.IsAlive() {
		t.Fatalf("got %v, alive %v after the re-added voice ended", v.State(), v.IsAlive())
	}
	if n := e.Voices(); n != 0 {
		t.Errorf("got %d voices, want 0", n)
	}
}

func TestSilentVoiceFinishes(t *testing.T) {
	e := ugentest.Engine(t, testConfig(100, 10, 2))
	v, err := e.Play(ugen.Channels(ugen.Null(), ugen.Null()))
	if err != nil {
		t.Fatal(err)
	}
	if v.State() != ugen.Finished {
		t.Fatalf("got %v for a voice with no playable channel", v.State())
	}
	ugentest.Near(t, ugentest.Render(e, 10, 2), make([]float32, 20), 0)
	if n := e.Voices(); n != 0 {
		t.Errorf("got %d voices, want 0", n)
	}
}

func TestPlayDoesNotAllocateOnRender(t *testing.T) {
	e := ugentest.Engine(t, testConfig(48000, 64, 2))
	out := make([]float32, 64*2)
	e.RenderBlock(out, 64, 2)

	if _, err := e.Play(ugen.Convolve(ugen.Sine(ugen.C(440)), ugen.SineTable(2048))); err != nil {
		t.Fatal(err)
	}
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	e.RenderBlock(out, 64, 2)
	runtime.ReadMemStats(&after)
	if n := after.Mallocs - before.Mallocs; n != 0 {
		t.Errorf("got %d allocations in the first block of a new voice, want 0", n)
	}
}

func TestRenderNeverBlocks(t *testing.T) {
	for _, policy := range []ugen.StalePolicy{ugen.StaleRepeat, ugen.StaleSilence} {
		cfg := testConfig(100, 4, 2)
		cfg.Stale = policy
		e := ugentest.Engine(t, cfg)
		if _, err := e.Play(ugen.C(.25, .5)); err != nil {
			t.Fatal(err)
		}
		good := ugentest.Render(e, 4, 2)
		ugentest.Near(t, good, []float32{.25, .5, .25, .5, .25, .5, .25, .5}, 0)

		const n = 5
		e.Do(func() {
			for i := 0; i < n; i++ {
				out := ugentest.Fill[float32](8, 9)
				e.RenderBlock(out, 4, 2)
				want := good
				if policy == ugen.StaleSilence {
					want = make([]float32, 8)
				}
				ugentest.Near(t, out, want, 0)
			}
		})
		if s := e.Stats(); s.Stale != n || s.Blocks != 1 {
			t.Errorf("got %+v, want %d stale and 1 computed", s, n)
		}
	}
}

func TestRenderWrapsChannels(t *testing.T) {
	e := ugentest.Engine(t, testConfig(100, 2, 2))
	e.Play(ugen.C(1))
	e.Play(ugen.C(0, 10))
	ugentest.Near(t, ugentest.Render(e, 2, 3), []float32{1, 11, 1, 1, 11, 1}, 0)

	out := [][]float32{make([]float32, 2), make([]float32, 2)}
	e.RenderSeparated(out, 2)
	ugentest.Near(t, out[1], []float32{11, 11}, 0)
}

func TestAfterIsBlockQuantized(t *testing.T) {
	e := ugentest.Engine(t, testConfig(100, 10, 1))
	var at []int
	block := 0
	e.After(.15, func() { at = append(at, block) })
	e.After(0, func() { at = append(at, block) })
	for ; block < 4; block++ {
		ugentest.Render(e, 10, 1)
	}
	if len(at) != 2 || at[0] != 0 || at[1] != 2 {
		t.Errorf("got events at blocks %v, want [0 2]", at)
	}
}

func TestReleaseAfter(t *testing.T) {
	e := ugentest.Engine(t, testConfig(100, 10, 1))
	k := &ugentest.Finite{Blocks: -1}
	v, _ := e.Play(ugen.New(k))
	e.ReleaseAfter(v, .1)
	ugentest.Render(e, 10, 1)
	if v.State() != ugen.Playing {
		t.Fatalf("got %v before the release time", v.State())
	}
	ugentest.Render(e, 10, 1)
	if k.Released != 1 || v.IsAlive() {
		t.Fatalf("got %d releases, alive %v", k.Released, v.IsAlive())
	}
}

func TestAudioInput(t *testing.T) {
	cfg := testConfig(100, 3, 2)
	cfg.InputChannels = 1
	e := ugentest.Engine(t, cfg)
	e.Play(ugen.Input(0).MulX(2))
	e.AudioIn([]float32{1, 2, 3}, 3, 1)
	ugentest.Near(t, ugentest.Render(e, 3, 2), []float32{2, 2, 4, 4, 6, 6}, 0)
}

func TestSetupAndClose(t *testing.T) {
	if _, err := ugen.NewEngine(testConfig(0, 512, 2)); !errors.Is(err, ugen.ErrInvalidParams) {
		t.Errorf("got %v for a zero sample rate, want ErrInvalidParams", err)
	}
	e := ugentest.Engine(t, testConfig(100, 2, 1))
	e.Play(ugen.C(1))
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Play(ugen.C(1)); !errors.Is(err, ugen.ErrClosed) {
		t.Errorf("got %v playing on a closed engine, want ErrClosed", err)
	}
	ugentest.Near(t, ugentest.Render(e, 2, 1), []float32{0, 0}, 0)
}

func TestParamSetFromControlSide(t *testing.T) {
	e := ugentest.Engine(t, testConfig(100, 4, 1))
	p := ugen.NewParam(0)
	e.Play(p.Handle())
	ugentest.Render(e, 4, 1)
	p.Set(1)
	out := ugentest.Render(e, 4, 1)
	ugentest.Near(t, out, []float32{.25, .5, .75, 1}, 1e-7)
	if got := p.Handle().Value(0); got != 1 {
		t.Errorf("Value = %v, want 1", got)
	}
}

func BenchmarkRenderBlock(b *testing.B) {
	e, err := ugen.NewEngine(testConfig(48000, 256, 2))
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 16; i++ {
		e.Play(ugen.Pan2(ugen.Sine(ugen.C(float64(100*i+100))).MulX(.05), ugen.C(0)))
	}
	out := make([]float32, 512)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.RenderBlock(out, 256, 2)
	}
}
