package ugen

import "errors"

var (
	ErrNotSetup      = errors.New("ugen: engine not set up")
	ErrClosed        = errors.New("ugen: engine closed")
	ErrInvalidParams = errors.New("ugen: invalid parameters")
	ErrVoicePlaying  = errors.New("ugen: voice already playing")
)
