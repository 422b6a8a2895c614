package codec

import "errors"

var (
	ErrUnknownFormat = errors.New("unrecognized audio container")
	ErrNoAudioData   = errors.New("no audio data in input")
)
