package ugen

import (
	"fmt"
	"reflect"
)

// An Initer is prepared for a render session by Init before it processes its
// first block, and again whenever the session parameters change.
type Initer interface {
	InitAudio(Params)
}

// Params are the render parameters of a session.  BlockSize is the nominal
// block length; kernels must size their work by the buffers they are given.
type Params struct {
	SampleRate float64
	BlockSize  int
}

func (p *Params) InitAudio(q Params) { *p = q }

// Valid reports whether p can drive a render session.
func (p Params) Valid() bool {
	return p.SampleRate > 0 && p.BlockSize > 0
}

// Init walks x, calling InitAudio on every Initer it finds in struct fields and
// slice elements.  It panics if it finds a value whose pointer type is an Initer
// but which cannot be addressed, since that value would silently stay
// uninitialized.
func Init(x any, p Params) {
	if err := initVal(reflect.ValueOf(x), p); err != nil {
		panic("ugen.Init: " + err.Error())
	}
}

var initerType = reflect.TypeFor[Initer]()

func initVal(v reflect.Value, p Params) (err error) {
	if !v.IsValid() || v.Kind() == reflect.Pointer && v.IsNil() || !v.CanInterface() {
		return
	}

	v = reflect.Indirect(v)
	if v.CanAddr() && v.Type().Name() != "" && v.Kind() != reflect.Interface {
		v = v.Addr()
	}
	if x, ok := v.Interface().(Initer); ok {
		x.InitAudio(p)
		return
	}

	defer func() {
		if err != nil {
			// append v to the Init stack trace
			err = fmt.Errorf("%w\n\t%#v", err, v)
		}
	}()
	if t := v.Type(); reflect.PointerTo(t).Implements(initerType) {
		return fmt.Errorf("%s does not implement ugen.Initer but *%s does.\nInit stack:", t, t)
	}

	v = reflect.Indirect(v)
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err = initVal(v.Field(i), p); err != nil {
				return
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			if err = initVal(v.Index(i), p); err != nil {
				return
			}
		}
	}

	return
}
