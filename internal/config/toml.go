// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Map   MapConfig   `toml:"map"`
	Store StoreConfig `toml:"store"`
}

// MapConfig maps map-related settings.
type MapConfig struct {
	HomeLat *float64 `toml:"home-lat"`
	HomeLng *float64 `toml:"home-lng"`
	Zoom    *int     `toml:"zoom"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Path *string `toml:"path"`
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
	if (cfg.Map.HomeLat == nil) != (cfg.Map.HomeLng == nil) {
		return FileConfig{}, fmt.Errorf("map.home-lat and map.home-lng must be set together")
	}
	return cfg, nil
}
