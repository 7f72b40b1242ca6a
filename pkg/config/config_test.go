package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 9408000.0*8, cfg.SampleRate)
	assert.Equal(t, 0.97, cfg.ClockRatioThreshold)
	assert.Equal(t, 1.0/30.0, cfg.ClockAlpha)
	assert.Equal(t, 10, cfg.ATF3Threshold)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decoder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"clock_ratio_threshold: 0.95\natf3_threshold: 20\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.95, cfg.ClockRatioThreshold)
	assert.Equal(t, 20, cfg.ATF3Threshold)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().SampleRate, cfg.SampleRate)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decoder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clock_alpha: 2.0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
