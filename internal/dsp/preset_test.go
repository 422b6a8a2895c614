package dsp

import (
	"errors"
	"testing"
)

func TestStylePreset_Validate(t *testing.T) {
	tests := []struct {
		name   string
		preset StylePreset
		ok     bool
	}{
		{"dilla defaults", StylePreset{0.98, 0.4, 0.3}, true},
		{"boundary high stretch", StylePreset{2.0, 0, 0}, true},
		{"boundary full lofi", StylePreset{1.0, 1.0, 1.0}, true},
		{"zero stretch", StylePreset{0, 0, 0}, false},
		{"stretch above two", StylePreset{2.01, 0, 0}, false},
		{"lofi above one", StylePreset{1.0, 1.01, 0}, false},
		{"negative swing", StylePreset{1.0, 0, -0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.preset.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				if !errors.Is(err, ErrInvalidPreset) {
					t.Errorf("got %v, want ErrInvalidPreset", err)
				}
			}
		})
	}
}

func TestStylePreset_BitDepth(t *testing.T) {
	tests := []struct {
		lofi float64
		want int
	}{
		{0, 16},
		{0.4, 12},
		{0.7, 9},
		{1.0, 6},
		// Out-of-range amounts never reach the engine, but the clamp
		// still holds the derived depth at one bit.
		{1.6, 1},
		{2.0, 1},
	}

	for _, tt := range tests {
		p := StylePreset{TimeStretchFactor: 1, LofiAmount: tt.lofi}
		if got := p.BitDepth(); got != tt.want {
			t.Errorf("BitDepth(lofi=%v) = %d, want %d", tt.lofi, got, tt.want)
		}
	}
}

func TestStylePreset_CrackleAmplitude(t *testing.T) {
	p := StylePreset{TimeStretchFactor: 1, LofiAmount: 0.4}
	if got := p.CrackleAmplitude(); got != 0.004 {
		t.Errorf("CrackleAmplitude = %v, want 0.004", got)
	}
}
