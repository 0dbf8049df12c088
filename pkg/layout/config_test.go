package layout

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

// Build and the pipeline hold the returned pointer, so each call must
// yield an independent instance.
func TestDefaultConfigFreshInstance(t *testing.T) {
	a, b := DefaultConfig(), DefaultConfig()
	if a == b {
		t.Fatal("DefaultConfig returned a shared instance")
	}
	a.MinBoxSize = 99
	if b.MinBoxSize == 99 {
		t.Error("mutating one default config leaked into another")
	}
}

func TestConfigValidateRejectsBadKnobs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NegativeMinBoxSize", func(c *Config) { c.MinBoxSize = -1 }},
		{"TextBelowMinBox", func(c *Config) { c.MinTextWidth = 1 }},
		{"InvertedAspect", func(c *Config) { c.MinAspectRatio = 10 }},
		{"UnknownHeuristic", func(c *Config) { c.PackingHeuristic = "best-guess" }},
		{"InvertedUtilization", func(c *Config) { c.UtilizationCriticalThreshold = 0.9 }},
		{"FallbackBelowMaxAspect", func(c *Config) { c.FallbackMaxAspectRatio = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
