// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/jackchuka/sift/internal/model"
	"github.com/jackchuka/sift/internal/sources"
)

type Config struct {
	// Scanning
	Sources           []model.GlobEntry `yaml:"sources"`
	IgnoredDirs       []string          `yaml:"ignored_dirs"`
	IgnoredExtensions []string          `yaml:"ignored_extensions"`
	Workers           int               `yaml:"workers"`
	PositionCacheSize int               `yaml:"position_cache_size"`

	// Watcher
	PollInterval time.Duration `yaml:"poll_interval"`
	AutoRefresh  bool          `yaml:"auto_refresh"`
}

func NewConfig() *Config {
	return &Config{
		Sources: []model.GlobEntry{
			{Base: ".", Pattern: "**/*"},
		},
		IgnoredDirs:       append([]string(nil), sources.DefaultIgnoredDirs...),
		IgnoredExtensions: []string{},
		Workers:           0,
		PositionCacheSize: 256,
		PollInterval:      5 * time.Second,
		AutoRefresh:       true,
	}
}

// Validate rejects settings the scanner would refuse at construction.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.PositionCacheSize < 0 {
		return fmt.Errorf("position_cache_size must not be negative, got %d", c.PositionCacheSize)
	}
	for i, s := range c.Sources {
		if s.Base == "" && s.Pattern == "" {
			return fmt.Errorf("source %d is empty", i)
		}
	}
	return nil
}
