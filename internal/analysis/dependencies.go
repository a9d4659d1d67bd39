package analysis

import (
	"strings"

	"github.com/mvp-joe/sourcelens/internal/lang"
)

// DetectDependencies reads path and returns its import statements in line order.
// Unsupported extensions and empty files yield an empty slice.
func (s *Scanner) DetectDependencies(path string) ([]Dependency, error) {
	content, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return detectDependencies(path, splitLines(content), s.lib.ForPath(path)), nil
}

// DetectDependenciesIn scans content that is already in memory.
func (s *Scanner) DetectDependenciesIn(path, content string, l *lang.Language) []Dependency {
	return detectDependencies(path, splitLines(content), l)
}

// detectDependencies applies each import pattern to each line independently, so a
// line can produce more than one dependency. Order is line order, then pattern order.
func detectDependencies(file string, lines []string, l *lang.Language) []Dependency {
	deps := []Dependency{}
	if len(l.Imports) == 0 {
		return deps
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, p := range l.Imports {
			subject := line
			if p.Trimmed {
				subject = trimmed
			}
			m := p.Regexp.FindStringSubmatch(subject)
			if m == nil {
				continue
			}
			deps = append(deps, Dependency{
				File:       file,
				Dependency: m[1],
				ImportType: p.Kind,
				LineNumber: i + 1,
			})
		}
	}

	return deps
}
