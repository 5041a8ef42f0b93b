package domain

import (
	"errors"
	"testing"
)

func TestDetectionConfig_Validate(t *testing.T) {
	if err := DefaultDetectionConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	mutations := []struct {
		name   string
		mutate func(*DetectionConfig)
	}{
		{"min irio at zero", func(c *DetectionConfig) { c.MinIrIo = 0 }},
		{"min irio at one", func(c *DetectionConfig) { c.MinIrIo = 1 }},
		{"strict irio above one", func(c *DetectionConfig) { c.StrictIrIo = 1.2 }},
		{"inverted duration window", func(c *DetectionConfig) { c.Duration = DurationWindow{Min: 500, Max: 4} }},
		{"negative min duration", func(c *DetectionConfig) { c.Duration.Min = -1 }},
		{"inverted baseline window", func(c *DetectionConfig) { c.Baseline = BaselineWindow{Lower: 10, Upper: 10} }},
		{"negative trim", func(c *DetectionConfig) { c.TrimStart = -1 }},
		{"unknown strict policy", func(c *DetectionConfig) { c.StrictPolicy = "DISCARD" }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDetectionConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrConfiguration) {
				t.Errorf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}
