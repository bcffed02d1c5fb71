// Command ugendemo plays a sine synth from the computer keyboard, or bounces a
// short melody to a WAV file.
//
// The bottom two letter rows and the top two rows of the keyboard are laid out
// like piano keys.  Space releases every voice; q quits.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gordonklaus/ugen"
	"github.com/gordonklaus/ugen/asset"
	"github.com/gordonklaus/ugen/bounce"
	"github.com/gordonklaus/ugen/driver/oto"
	"github.com/gordonklaus/ugen/driver/portaudio"
)

var (
	driver     = flag.String("driver", "portaudio", "audio output: portaudio or oto")
	rate       = flag.Float64("rate", 48000, "sample rate in Hz")
	block      = flag.Int("block", 256, "frames per block")
	channels   = flag.Int("channels", 2, "output channels")
	irPath     = flag.String("ir", "", "impulse response to add as reverb (wav, aiff, mp3 or ogg)")
	bouncePath = flag.String("bounce", "", "write the demo melody to this WAV file and exit")
	seconds    = flag.Float64("seconds", 6, "length of the -bounce render")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	cfg := ugen.DefaultConfig()
	cfg.SampleRate = *rate
	cfg.BlockSize = *block
	cfg.OutputChannels = *channels
	e, err := ugen.NewEngine(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer e.Close()

	inst := &synth{}
	if *irPath != "" {
		ir, err := asset.LoadFile(*irPath)
		if err != nil {
			log.Fatal(err)
		}
		inst.ir = ir.Mono()
		log.Printf("loaded %s: %.2fs, %d channels", ir.Name, ir.Seconds(), len(ir.Channels))
	}

	if *bouncePath != "" {
		if err := bounceMelody(e, inst, *bouncePath, *seconds); err != nil {
			log.Fatal(err)
		}
		return
	}

	stop, err := start(e)
	if err != nil {
		log.Fatal(err)
	}
	defer stop()
	if err := play(e, inst, os.Stdin); err != nil {
		log.Print(err)
	}
}

// start opens the selected driver and returns a function that closes it.
func start(e *ugen.Engine) (func(), error) {
	switch *driver {
	case "oto":
		p, err := oto.Open(e)
		if err != nil {
			return nil, err
		}
		p.Start()
		return func() {
			if err := p.Err(); err != nil {
				log.Print(err)
			}
			p.Close()
		}, nil
	case "portaudio":
		if err := portaudio.Initialize(); err != nil {
			return nil, err
		}
		c := portaudio.PlayAsync(e)
		return func() {
			portaudio.StopAll()
			<-c.Done
			portaudio.Terminate()
		}, nil
	}
	log.Fatalf("unknown driver %q", *driver)
	return nil, nil
}

func bounceMelody(e *ugen.Engine, inst *synth, path string, seconds float64) error {
	p, err := ugen.NewPatternPlayer(e, melody(), inst)
	if err != nil {
		return err
	}
	if err := p.Start(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bounce.WriteWAV(f, e, seconds, 16); err != nil {
		f.Close()
		return err
	}
	if !p.Done() {
		log.Printf("%s: melody cut off after %gs", path, seconds)
	}
	return f.Close()
}
