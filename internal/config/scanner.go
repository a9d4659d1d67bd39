package config

import (
	"github.com/mvp-joe/sourcelens/internal/analysis"
)

// ScannerOptions converts the config into scanner options.
func (c *Config) ScannerOptions() []analysis.Option {
	return []analysis.Option{
		analysis.WithResolveExtensions(c.Resolve.Extensions),
		analysis.WithIncludeComments(c.Scan.IncludeComments),
	}
}

// BatchOptions converts the config into batch scanner options. Callers append
// their own progress reporter, logger and file scanner.
func (c *Config) BatchOptions() []analysis.BatchOption {
	return []analysis.BatchOption{
		analysis.WithIgnorePatterns(c.Scan.Ignore),
		analysis.WithMaxFileSize(c.MaxFileSizeBytes()),
		analysis.WithWorkers(c.Scan.Workers),
	}
}
