package analysis

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvp-joe/sourcelens/internal/lang"
)

// ResolveImports maps the local imports of path to files on disk. Specifiers not
// starting with "." or "/" are treated as package imports and skipped, as are
// specifiers that resolve to nothing. The result is absolute, deduplicated and sorted.
func (s *Scanner) ResolveImports(path string) ([]string, error) {
	deps, err := s.DetectDependencies(path)
	if err != nil {
		return nil, err
	}
	return s.resolve(path, deps, s.lib.ForPath(path))
}

func (s *Scanner) resolve(path string, deps []Dependency, l *lang.Language) ([]string, error) {
	resolved := []string{}
	if len(deps) == 0 {
		return resolved, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	baseDir := filepath.Dir(abs)
	python := l.Family == lang.FamilyIndent

	seen := make(map[string]bool)
	for _, dep := range deps {
		spec := dep.Dependency
		if python {
			spec = pythonRelative(spec)
		}
		if !strings.HasPrefix(spec, ".") && !strings.HasPrefix(spec, "/") {
			continue
		}

		target, ok := s.resolveSpecifier(baseDir, spec, python)
		if !ok || seen[target] {
			continue
		}
		seen[target] = true
		resolved = append(resolved, target)
	}

	sort.Strings(resolved)
	return resolved, nil
}

// resolveSpecifier tries the exact path, then each extension appended, then an
// index file for each extension inside the path treated as a directory.
func (s *Scanner) resolveSpecifier(baseDir, spec string, python bool) (string, bool) {
	var candidate string
	if filepath.IsAbs(spec) {
		candidate = filepath.Clean(spec)
	} else {
		candidate = filepath.Join(baseDir, spec)
	}

	if isRegularFile(candidate) {
		return candidate, true
	}

	for _, ext := range s.resolveExts {
		if p := candidate + "." + ext; isRegularFile(p) {
			return p, true
		}
	}

	for _, ext := range s.resolveExts {
		if p := filepath.Join(candidate, "index."+ext); isRegularFile(p) {
			return p, true
		}
	}

	if python {
		if p := filepath.Join(candidate, "__init__.py"); isRegularFile(p) {
			return p, true
		}
	}

	return "", false
}

// pythonRelative rewrites dotted relative module paths into file paths:
// ".utils" → "./utils", "..pkg.mod" → "../pkg/mod". Absolute module names are
// returned unchanged.
func pythonRelative(spec string) string {
	dots := len(spec) - len(strings.TrimLeft(spec, "."))
	if dots == 0 {
		return spec
	}

	prefix := "./"
	if dots > 1 {
		prefix = strings.Repeat("../", dots-1)
	}
	return prefix + strings.ReplaceAll(spec[dots:], ".", "/")
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
