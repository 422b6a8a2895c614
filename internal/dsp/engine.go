package dsp

import (
	"math"
	"math/rand"
)

// ApplyStyle runs the full effect chain on input and returns a new
// buffer at the input's declared sample rate. The chain changes the
// sample count but not the rate, so stretched output plays back with a
// pitch/tempo shift. That artifact is intentional.
//
// The input buffer is never mutated. rng feeds the crackle stage only;
// callers inject it so tests can substitute a deterministic source.
func ApplyStyle(input *SampleBuffer, preset StylePreset, rng *rand.Rand) (*SampleBuffer, error) {
	if input == nil || input.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if err := preset.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	out := timeStretch(input, preset.TimeStretchFactor)
	quantize(out.Data, preset.BitDepth())
	crackle(out.Data, preset.CrackleAmplitude(), rng)
	return out, nil
}

// timeStretch resamples by nearest-neighbor index mapping. No
// interpolation and no anti-aliasing: the aliasing is part of the
// sound. For factors below 1 the trailing samples past the mapped
// range stay at zero (silence).
func timeStretch(in *SampleBuffer, factor float64) *SampleBuffer {
	n := in.Len()
	outLen := int(float64(n) / factor)
	out := NewSampleBuffer(outLen, in.SampleRate)

	for i := 0; i < outLen; i++ {
		src := int(float64(i) * factor)
		if src < n {
			out.Data[i] = in.Data[src]
		}
	}
	return out
}

// quantize rounds every sample to 2*step discrete amplitude levels,
// where step = 2^(bitDepth-1). Idempotent for a fixed depth.
func quantize(samples []float64, bitDepth int) {
	step := math.Pow(2, float64(bitDepth-1))
	for i, s := range samples {
		samples[i] = math.Round(s*step) / step
	}
}

// crackle adds independent uniform noise in [-amplitude, amplitude]
// to every sample, simulating vinyl surface noise.
func crackle(samples []float64, amplitude float64, rng *rand.Rand) {
	if amplitude == 0 {
		return
	}
	for i := range samples {
		samples[i] += (rng.Float64()*2 - 1) * amplitude
	}
}
