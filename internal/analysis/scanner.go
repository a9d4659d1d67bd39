// Package analysis implements the heuristic source scanner: dependency detection,
// function boundary extraction, annotation extraction, comment filtering, project
// type detection and import resolution.
//
// Every operation is a stateless call over one file or directory. A Scanner only
// holds read-only configuration, so a single instance can serve concurrent callers.
package analysis

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mvp-joe/sourcelens/internal/lang"
	"github.com/mvp-joe/sourcelens/internal/tokens"
)

// DefaultResolveExtensions are tried, in order, when a relative import has no
// extension or names a directory.
var DefaultResolveExtensions = []string{"js", "jsx", "ts", "tsx", "css", "scss", "json", "py", "rs"}

// FileScanner produces a full report for a single file.
type FileScanner interface {
	ScanFile(ctx context.Context, path string) (*FileReport, error)
}

// Scanner runs the per-file and per-directory heuristics.
type Scanner struct {
	lib             *lang.Library
	resolveExts     []string
	includeComments bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLibrary overrides the language table.
func WithLibrary(lib *lang.Library) Option {
	return func(s *Scanner) {
		s.lib = lib
	}
}

// WithResolveExtensions overrides the import resolution extension list.
func WithResolveExtensions(exts []string) Option {
	return func(s *Scanner) {
		if len(exts) > 0 {
			s.resolveExts = append([]string(nil), exts...)
		}
	}
}

// WithIncludeComments controls whether ScanFile estimates tokens with comments kept.
func WithIncludeComments(include bool) Option {
	return func(s *Scanner) {
		s.includeComments = include
	}
}

// NewScanner creates a scanner using the shared language library.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		lib:             lang.Default(),
		resolveExts:     DefaultResolveExtensions,
		includeComments: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Library returns the language table in use.
func (s *Scanner) Library() *lang.Library {
	return s.lib
}

// ScanFile reads path once and runs every per-file analysis on it.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*FileReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := ReadSource(path)
	if err != nil {
		return nil, err
	}

	l := s.lib.ForPath(path)
	lines := splitLines(content)
	deps := detectDependencies(path, lines, l)

	imports, err := s.resolve(path, deps, l)
	if err != nil {
		return nil, err
	}

	text := filterComments(content, l, s.lib.Markers(), s.includeComments)

	return &FileReport{
		Path:         path,
		Language:     l.Name,
		Dependencies: deps,
		Functions:    extractFunctions(path, lines, l),
		Annotations:  extractAnnotations(path, lines, s.lib.Markers()),
		Imports:      imports,
		Tokens:       tokens.EstimateText(text),
	}, nil
}

// ReadSource reads a file and rejects non-UTF-8 content.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ioError(path, err)
	}
	if !utf8.Valid(data) {
		return "", encodingError(path)
	}
	return string(data), nil
}

// splitLines splits content into lines. A trailing newline does not produce an
// extra empty line, and a trailing "\r" is stripped from each line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
