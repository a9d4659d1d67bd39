// Package config loads sourcelens settings from .sourcelens/config.yml with
// SOURCELENS_* environment variable overrides.
//
// Priority (highest to lowest):
//  1. Environment variables (SOURCELENS_SCAN_WORKERS, ...)
//  2. Project config (<root>/.sourcelens/config.yml)
//  3. User config (~/.sourcelens/config.yml), read only when the project has none
//  4. Built-in defaults
package config

import (
	"runtime"
	"time"
)

// Config represents the complete sourcelens configuration.
type Config struct {
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// ScanConfig controls directory scans.
type ScanConfig struct {
	Ignore          []string `yaml:"ignore" mapstructure:"ignore"`                     // added to the built-in ignore list
	MaxFileSizeMB   float64  `yaml:"max_file_size_mb" mapstructure:"max_file_size_mb"` // 0 disables the limit
	Workers         int      `yaml:"workers" mapstructure:"workers"`
	IncludeComments bool     `yaml:"include_comments" mapstructure:"include_comments"` // token estimates keep comments
}

// ResolveConfig controls import resolution.
type ResolveConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // tried in order, no leading dot
}

// CacheConfig bounds the per-file result cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // json, yaml or text
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Ignore:          []string{},
			MaxFileSizeMB:   10,
			Workers:         runtime.NumCPU(),
			IncludeComments: true,
		},
		Resolve: ResolveConfig{
			Extensions: []string{"js", "jsx", "ts", "tsx", "css", "scss", "json", "py", "rs"},
		},
		Cache: CacheConfig{
			MaxEntries: 10000,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// MaxFileSizeBytes converts the size limit to bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Scan.MaxFileSizeMB * 1024 * 1024)
}

// Debounce returns the watcher quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
