// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data    DataConfig    `toml:"data"`
	Filters FiltersConfig `toml:"filters"`
	Log     LogConfig     `toml:"log"`
	Export  ExportConfig  `toml:"export"`
}

// DataConfig points at the dataset to explore.
type DataConfig struct {
	Path *string `toml:"path"`
}

// FiltersConfig holds the initial selector values. "All" or empty means unconstrained.
type FiltersConfig struct {
	Category *string `toml:"category"`
	Gender   *string `toml:"gender"`
	Payment  *string `toml:"payment"`
	Season   *string `toml:"season"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	File   *string `toml:"file"`
}

// ExportConfig maps PNG export settings.
type ExportConfig struct {
	Width  *int `toml:"width"`
	Height *int `toml:"height"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
