// internal/config/config.go
//
// Optional display settings for the CLI, loaded from a small YAML file
// (.plantbalance.yaml next to the input files by default). Command-line flags
// override anything set here; a missing file just means defaults.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the settings file looked up when no --settings flag is given.
const DefaultFile = ".plantbalance.yaml"

const (
	defaultDecimals    = 2
	defaultSlotsPerDay = 24
)

// Settings models the YAML settings file.
type Settings struct {
	// Decimals is the number of decimal places in rendered quantities.
	Decimals int `yaml:"decimals"`
	// SlotsPerDay controls how many points the hourly series spread each day
	// over.
	SlotsPerDay int `yaml:"slots_per_day"`
	// Output is the default report path; empty means stdout only.
	Output string `yaml:"output"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{Decimals: defaultDecimals, SlotsPerDay: defaultSlotsPerDay}
}

// Load reads the settings file at path. A missing file is not an error when
// explicit is false (the default lookup); it just yields Default().
func Load(path string, explicit bool) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return Settings{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return parsed, nil
}

func (s *Settings) applyDefaults() {
	if s.Decimals == 0 {
		s.Decimals = defaultDecimals
	}
	if s.SlotsPerDay == 0 {
		s.SlotsPerDay = defaultSlotsPerDay
	}
}

func (s Settings) validate() error {
	if s.Decimals < 0 || s.Decimals > 9 {
		return fmt.Errorf("decimals must be between 0 and 9, got %d", s.Decimals)
	}
	if s.SlotsPerDay < 1 || s.SlotsPerDay > 24*60 {
		return fmt.Errorf("slots_per_day must be between 1 and %d, got %d", 24*60, s.SlotsPerDay)
	}
	return nil
}
