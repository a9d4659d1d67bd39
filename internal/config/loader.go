package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project and per-user configuration directory.
const DirName = ".sourcelens"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	homeDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	home, _ := os.UserHomeDir()
	return &loader{
		rootDir: rootDir,
		homeDir: home,
	}
}

// Load reads .sourcelens/config.yml from the root (falling back to the user's home
// directory), applies SOURCELENS_* overrides and validates the result.
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	if l.homeDir != "" {
		v.AddConfigPath(filepath.Join(l.homeDir, DirName))
	}

	v.SetEnvPrefix("SOURCELENS")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., SOURCELENS_SCAN_WORKERS)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("scan.ignore")
	v.BindEnv("scan.max_file_size_mb")
	v.BindEnv("scan.workers")
	v.BindEnv("scan.include_comments")

	v.BindEnv("resolve.extensions")

	v.BindEnv("cache.max_entries")

	v.BindEnv("watch.debounce_ms")

	v.BindEnv("output.format")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("scan.ignore", defaults.Scan.Ignore)
	v.SetDefault("scan.max_file_size_mb", defaults.Scan.MaxFileSizeMB)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("scan.include_comments", defaults.Scan.IncludeComments)

	v.SetDefault("resolve.extensions", defaults.Resolve.Extensions)

	v.SetDefault("cache.max_entries", defaults.Cache.MaxEntries)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)

	v.SetDefault("output.format", defaults.Output.Format)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
