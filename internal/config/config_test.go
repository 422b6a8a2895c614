package config

import (
	"testing"

	"github.com/tapedeck/api/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("port = %s, want 3000", cfg.Server.Port)
	}
	if cfg.Audio.MaxUploadMB != 25 {
		t.Errorf("max upload = %d, want 25", cfg.Audio.MaxUploadMB)
	}
	if cfg.Audio.MaxDurationSeconds != 600 {
		t.Errorf("max duration = %d, want 600", cfg.Audio.MaxDurationSeconds)
	}
	if cfg.Audio.RetentionSeconds != 86400 {
		t.Errorf("retention = %d, want 86400", cfg.Audio.RetentionSeconds)
	}
	if cfg.RateLimit.ProcessPerHour != 20 {
		t.Errorf("process limit = %d, want 20", cfg.RateLimit.ProcessPerHour)
	}
}

func TestLoad_StylePresets(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Styles) != len(model.ValidStyles) {
		t.Fatalf("loaded %d styles, want %d", len(cfg.Styles), len(model.ValidStyles))
	}

	tests := []struct {
		style   model.Style
		stretch float64
		lofi    float64
		swing   float64
	}{
		{model.StyleDilla, 0.98, 0.4, 0.3},
		{model.StyleAlbini, 1.0, 0.15, 0.0},
		{model.StyleBurns, 1.05, 0.7, 0.1},
	}

	for _, tt := range tests {
		preset, err := cfg.PresetFor(tt.style)
		if err != nil {
			t.Fatalf("PresetFor(%s) failed: %v", tt.style, err)
		}
		if preset.TimeStretchFactor != tt.stretch {
			t.Errorf("%s stretch = %v, want %v", tt.style, preset.TimeStretchFactor, tt.stretch)
		}
		if preset.LofiAmount != tt.lofi {
			t.Errorf("%s lofi = %v, want %v", tt.style, preset.LofiAmount, tt.lofi)
		}
		if preset.SwingAmount != tt.swing {
			t.Errorf("%s swing = %v, want %v", tt.style, preset.SwingAmount, tt.swing)
		}
	}
}

func TestPresetFor_UnknownStyle(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := cfg.PresetFor(model.Style("vaporwave")); err == nil {
		t.Error("expected an error for an unconfigured style")
	}
}
