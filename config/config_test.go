package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()
	assert.Equal(t, 60, s.TargetFPS)
	assert.False(t, s.EnableTicks)
	assert.Equal(t, 256, s.QueueCapacity)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s := Default()
	s.TargetFPS = 30
	s.MouseEnabled = true
	s.ColorCapability = "256"

	require.NoError(t, Save(s))

	loaded := Load()
	assert.Equal(t, 30, loaded.TargetFPS)
	assert.True(t, loaded.MouseEnabled)
	assert.Equal(t, "256", loaded.ColorCapability)
}

func TestLoadClampsInvalidFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	raw, err := yaml.Marshal(map[string]any{
		"target_fps":       -5,
		"queue_capacity":   -1,
		"color_capability": "bogus",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".wisprc.yaml"), raw, 0o644))

	loaded := Load()
	assert.Equal(t, 60, loaded.TargetFPS)
	assert.Equal(t, 0, loaded.QueueCapacity)
	assert.Equal(t, "", loaded.ColorCapability)
}

func TestLoadWritesDefaultsWhenFileMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	loaded := Load()
	assert.Equal(t, Default(), loaded)

	_, err := os.Stat(filepath.Join(home, ".wisprc.yaml"))
	assert.NoError(t, err, "Load should persist defaults for future editing")
}
