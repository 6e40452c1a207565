// Package config handles tool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// MaxMaps is the number of map slots a client folder can hold.
const MaxMaps = 6

// Config holds all settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Radar   RadarConfig   `yaml:"radar"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds client data locations.
type DataConfig struct {
	UOPath        string `yaml:"uo_path"`        // Client installation folder
	ClientVersion string `yaml:"client_version"` // e.g. "7.0.15.1"; empty = unknown
	Maps          []int  `yaml:"maps"`           // Maps to index on startup; empty = all present
}

// RadarConfig holds radar rendering settings.
type RadarConfig struct {
	CacheBlocks int64 `yaml:"cache_blocks"` // Decoded blocks kept in memory
	Scale       int   `yaml:"scale"`        // Pixels per tile
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			UOPath:        ".",
			ClientVersion: "",
		},
		Radar: RadarConfig{
			CacheBlocks: 4096,
			Scale:       1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var err error
	if c.Data.UOPath == "" {
		err = multierr.Append(err, errors.New("data.uo_path is empty"))
	}
	for _, id := range c.Data.Maps {
		if id < 0 || id >= MaxMaps {
			err = multierr.Append(err, fmt.Errorf("data.maps: map %d out of range 0..%d", id, MaxMaps-1))
		}
	}
	if c.Radar.CacheBlocks < 0 {
		err = multierr.Append(err, fmt.Errorf("radar.cache_blocks: %d is negative", c.Radar.CacheBlocks))
	}
	if c.Radar.Scale <= 0 {
		err = multierr.Append(err, fmt.Errorf("radar.scale: %d must be positive", c.Radar.Scale))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	return err
}
