package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidFileSize indicates a negative size limit
	ErrInvalidFileSize = errors.New("invalid max file size")

	// ErrInvalidExtension indicates a malformed resolve extension
	ErrInvalidExtension = errors.New("invalid resolve extension")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidDebounce indicates a negative debounce period
	ErrInvalidDebounce = errors.New("invalid debounce")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")
)

// Formats lists the supported output formats.
var Formats = []string{"json", "yaml", "text"}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateScan(&cfg.Scan); err != nil {
		errs = append(errs, err)
	}
	if err := validateResolve(&cfg.Resolve); err != nil {
		errs = append(errs, err)
	}
	if cfg.Cache.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: max_entries cannot be negative, got %d", ErrInvalidCacheSettings, cfg.Cache.MaxEntries))
	}
	if cfg.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMS))
	}
	if err := ValidateFormat(cfg.Output.Format); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if strings.EqualFold(format, f) {
			return nil
		}
	}
	return fmt.Errorf("%w: must be one of %s, got '%s'", ErrInvalidFormat, strings.Join(Formats, ", "), format)
}

func validateScan(cfg *ScanConfig) error {
	var errs []error

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}
	if cfg.MaxFileSizeMB < 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_size_mb cannot be negative, got %.2f", ErrInvalidFileSize, cfg.MaxFileSizeMB))
	}

	return joinErrors(errs)
}

func validateResolve(cfg *ResolveConfig) error {
	var errs []error

	for _, ext := range cfg.Extensions {
		if strings.TrimSpace(ext) == "" || strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
			errs = append(errs, fmt.Errorf("%w: '%s' (use a bare extension such as 'ts')", ErrInvalidExtension, ext))
		}
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into a single error with clear formatting.
// Every input stays reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	format := "validation failed:" + strings.Repeat("\n  - %w", len(errs))
	args := make([]any, len(errs))
	for i, err := range errs {
		args[i] = err
	}
	return fmt.Errorf(format, args...)
}
