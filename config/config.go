// Package config loads and persists the user-configurable settings that
// sit alongside wisp.Config: the pieces a user would reasonably want to
// keep between runs (frame rate, mouse/paste reporting, the color
// capability override) rather than hard-code in every cmd/ program.
//
// On first run a default YAML file is written to ~/.wisprc.yaml;
// subsequent runs read it and fall back to defaults for anything
// missing, the way patrick-goecommerce-Multiterminal-UI's config
// package does for its own dotfile.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the persisted preferences.
type Settings struct {
	// TargetFPS is the app loop's target frame rate.
	TargetFPS int `yaml:"target_fps"`

	// EnableTicks turns on per-frame tick events for animated widgets.
	EnableTicks bool `yaml:"enable_ticks"`

	// QueueCapacity bounds the event queue; 0 falls back to the App default.
	QueueCapacity int `yaml:"queue_capacity"`

	// MouseEnabled turns on SGR mouse reporting (modes 1000/1002/1003/1006).
	MouseEnabled bool `yaml:"mouse_enabled"`

	// PasteEnabled turns on bracketed paste mode (DEC 2004).
	PasteEnabled bool `yaml:"paste_enabled"`

	// ColorCapability overrides the auto-detected color capability: one of
	// "", "none", "16", "256", "truecolor". Empty means auto-detect.
	ColorCapability string `yaml:"color_capability"`
}

// Default returns the built-in defaults.
func Default() Settings {
	return Settings{
		TargetFPS:     60,
		EnableTicks:   false,
		QueueCapacity: 256,
		MouseEnabled:  false,
		PasteEnabled:  false,
	}
}

func path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wisprc.yaml")
}

// Load reads ~/.wisprc.yaml, falling back to defaults for missing fields
// and for a missing file entirely (in which case the defaults are also
// written out for future editing, best-effort).
func Load() Settings {
	s := Default()

	p := path()
	if p == "" {
		return s
	}

	data, err := os.ReadFile(p)
	if err != nil {
		_ = Save(s)
		return s
	}

	_ = yaml.Unmarshal(data, &s)

	if s.TargetFPS <= 0 {
		s.TargetFPS = 60
	}
	if s.TargetFPS > 240 {
		s.TargetFPS = 240
	}
	if s.QueueCapacity < 0 {
		s.QueueCapacity = 0
	}
	switch s.ColorCapability {
	case "", "none", "16", "256", "truecolor":
	default:
		s.ColorCapability = ""
	}

	return s
}

// Save writes s to ~/.wisprc.yaml.
func Save(s Settings) error {
	p := path()
	if p == "" {
		return os.ErrNotExist
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
