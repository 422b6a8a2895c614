package dsp

// SampleBuffer holds mono float64 samples at a declared sample rate.
// Values are nominally in [-1, 1]; the crackle stage may push them
// slightly outside. Clamping happens at encode time, not here.
type SampleBuffer struct {
	Data       []float64
	SampleRate int
}

// NewSampleBuffer allocates a zeroed buffer of n samples.
func NewSampleBuffer(n, sampleRate int) *SampleBuffer {
	return &SampleBuffer{
		Data:       make([]float64, n),
		SampleRate: sampleRate,
	}
}

// Len returns the sample count.
func (b *SampleBuffer) Len() int {
	return len(b.Data)
}

// Duration returns the buffer length in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(len(b.Data)) / float64(b.SampleRate)
}

// Clone returns a deep copy sharing no memory with the receiver.
func (b *SampleBuffer) Clone() *SampleBuffer {
	out := &SampleBuffer{
		Data:       make([]float64, len(b.Data)),
		SampleRate: b.SampleRate,
	}
	copy(out.Data, b.Data)
	return out
}
