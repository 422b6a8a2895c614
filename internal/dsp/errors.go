package dsp

import "errors"

var (
	ErrEmptyInput    = errors.New("input buffer is empty")
	ErrInvalidPreset = errors.New("style preset parameters out of range")
	ErrNilRand       = errors.New("random source is required")
)
