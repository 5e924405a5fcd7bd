// Package config holds user-visible settings persisted as a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings are the user preferences surfaced by the settings screen.
type Settings struct {
	// DarkTheme selects the dark display palette.
	DarkTheme bool `toml:"dark_theme"`

	// Voice is the speech synthesizer voice selector (espeak-ng voice name).
	Voice string `toml:"voice"`

	// Rate is the speech rate multiplier; 1.0 is the synthesizer default.
	Rate float64 `toml:"rate"`
}

// Default returns the factory settings.
func Default() Settings {
	return Settings{
		DarkTheme: true,
		Voice:     "en",
		Rate:      1.0,
	}
}

// DefaultPath returns XDG_CONFIG_HOME/noveltts/config.toml or the home
// equivalent.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "noveltts", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "noveltts", "config.toml")
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read config: %w", err)
	}

	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
