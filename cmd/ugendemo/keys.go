package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/gordonklaus/ugen"
)

// play reads keys from in until q or EOF, starting a voice for each key.
func play(e *ugen.Engine, inst *synth, in *os.File) error {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(fd, old)
	}
	fmt.Print("play with the keyboard; space releases all, q quits\r\n")

	buf := make([]byte, 1)
	pan := .3
	for {
		if _, err := in.Read(buf); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch k := buf[0]; k {
		case 'q', 3:
			return nil
		case ' ':
			e.ReleaseAll()
		default:
			p, ok := keyPitch[k]
			if !ok {
				continue
			}
			pan = -pan
			if _, err := e.Play(inst.Play(note{Pitch: p, Amp: .3, Pan: pan})); err != nil {
				return err
			}
		}
	}
}

var keyPitch = map[byte]float64{
	'z': -12,
	's': -11,
	'x': -10,
	'd': -9,
	'c': -8,
	'v': -7,
	'g': -6,
	'b': -5,
	'h': -4,
	'n': -3,
	'j': -2,
	'm': -1,
	',': 0,
	'l': 1,
	'.': 2,
	';': 3,
	'/': 4,
	'w': 2,
	'3': 3,
	'e': 4,
	'r': 5,
	'5': 6,
	't': 7,
	'6': 8,
	'y': 9,
	'7': 10,
	'u': 11,
	'i': 12,
	'9': 13,
	'o': 14,
	'0': 15,
	'p': 16,
	'[': 17,
	'=': 18,
	']': 19,
	'\\': 21,
	'2': 1,
}
