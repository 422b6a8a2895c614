package dsp

import "fmt"

// StylePreset bundles the effect chain parameters for one producer style.
type StylePreset struct {
	// TimeStretchFactor controls naive resampling. 1.0 = no stretch,
	// values below 1 lengthen the clip, above 1 shorten it. Valid (0, 2].
	TimeStretchFactor float64

	// LofiAmount drives both bit-depth reduction and crackle intensity.
	// Valid [0, 1].
	LofiAmount float64

	// SwingAmount is reserved: carried in every preset but not applied
	// to sample data by the current chain. Valid [0, 1].
	SwingAmount float64
}

// Validate checks the preset against the documented parameter ranges.
func (p StylePreset) Validate() error {
	if p.TimeStretchFactor <= 0 || p.TimeStretchFactor > 2 {
		return fmt.Errorf("%w: timeStretchFactor %v not in (0, 2]", ErrInvalidPreset, p.TimeStretchFactor)
	}
	if p.LofiAmount < 0 || p.LofiAmount > 1 {
		return fmt.Errorf("%w: lofiAmount %v not in [0, 1]", ErrInvalidPreset, p.LofiAmount)
	}
	if p.SwingAmount < 0 || p.SwingAmount > 1 {
		return fmt.Errorf("%w: swingAmount %v not in [0, 1]", ErrInvalidPreset, p.SwingAmount)
	}
	return nil
}

// BitDepth derives the quantization depth from LofiAmount. The result
// is clamped to at least 1 bit so an out-of-range amount can never
// yield a non-positive depth.
func (p StylePreset) BitDepth() int {
	depth := 16 - int(10*p.LofiAmount)
	if depth < 1 {
		depth = 1
	}
	return depth
}

// CrackleAmplitude is the bound of the uniform noise added per sample.
func (p StylePreset) CrackleAmplitude() float64 {
	return p.LofiAmount * 0.01
}
