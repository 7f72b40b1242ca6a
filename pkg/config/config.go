// Package config holds the tuned decoder constants and their optional
// YAML overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config collects every knob the decoding pipeline exposes. The defaults
// are the values the decoder was tuned with; override them only with
// captures that genuinely need it.
type Config struct {
	// SampleRate is the capture rate in Hz, 8x the channel symbol
	// rate.
	SampleRate float64 `yaml:"sample_rate"`

	// ClockRatioThreshold is the min/max energy ratio below which the
	// symbol clock is considered locked.
	ClockRatioThreshold float64 `yaml:"clock_ratio_threshold"`

	// ClockAlpha is the clock window filter coefficient.
	ClockAlpha float64 `yaml:"clock_alpha"`

	// ATF3Threshold is the tone count above which a track is tagged as
	// read by head A.
	ATF3Threshold int `yaml:"atf3_threshold"`
}

// Default returns the tuned defaults.
func Default() Config {
	return Config{
		SampleRate:          9408000.0 * 8,
		ClockRatioThreshold: 0.97,
		ClockAlpha:          1.0 / 30.0,
		ATF3Threshold:       10,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.SampleRate <= 9408000 {
		return fmt.Errorf("sample rate %g must exceed the symbol rate", c.SampleRate)
	}
	if c.ClockRatioThreshold <= 0 || c.ClockRatioThreshold >= 1 {
		return fmt.Errorf("clock ratio threshold %g must be in (0,1)", c.ClockRatioThreshold)
	}
	if c.ClockAlpha <= 0 || c.ClockAlpha >= 1 {
		return fmt.Errorf("clock alpha %g must be in (0,1)", c.ClockAlpha)
	}
	if c.ATF3Threshold < 0 {
		return fmt.Errorf("ATF3 threshold %d must not be negative", c.ATF3Threshold)
	}
	return nil
}
