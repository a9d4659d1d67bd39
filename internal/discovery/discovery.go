// Package discovery walks a directory tree and selects the files worth scanning.
package discovery

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultIgnorePatterns are always applied. Plain tokens match as substrings of the
// relative path; tokens with glob syntax ("*.pyc") match the base name, or the
// whole relative path when they contain a "/".
var DefaultIgnorePatterns = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	"target",
	".next",
	"out",
	"coverage",
	".cache",
	".vscode",
	".idea",
	"__pycache__",
	"*.pyc",
	".DS_Store",
	"Thumbs.db",
}

// binarySniffLen is how many leading bytes are checked for NUL.
const binarySniffLen = 8000

// compiledPattern is a glob ignore token.
type compiledPattern struct {
	glob glob.Glob
	// pathScoped patterns contain "/" and match the relative path instead of the base name.
	pathScoped bool
}

// FileDiscovery handles file discovery with ignore rules.
type FileDiscovery struct {
	rootDir     string
	substrings  []string
	globs       []compiledPattern
	maxFileSize int64
}

// NewFileDiscovery creates a discovery for rootDir. customPatterns are added to
// DefaultIgnorePatterns. maxFileSize of zero disables the size limit.
func NewFileDiscovery(rootDir string, customPatterns []string, maxFileSize int64) (*FileDiscovery, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	fd := &FileDiscovery{
		rootDir:     abs,
		maxFileSize: maxFileSize,
	}

	patterns := append(append([]string{}, DefaultIgnorePatterns...), customPatterns...)
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, "*?[{") {
			fd.substrings = append(fd.substrings, pattern)
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		fd.globs = append(fd.globs, compiledPattern{
			glob:       g,
			pathScoped: strings.Contains(pattern, "/"),
		})
	}

	return fd, nil
}

// Root returns the absolute root directory.
func (fd *FileDiscovery) Root() string {
	return fd.rootDir
}

// ShouldIgnore reports whether a slash-separated path relative to the root is excluded.
func (fd *FileDiscovery) ShouldIgnore(relPath string) bool {
	relPath = filepath.ToSlash(relPath)

	for _, s := range fd.substrings {
		if strings.Contains(relPath, s) {
			return true
		}
	}

	base := relPath
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		base = relPath[i+1:]
	}

	for _, cp := range fd.globs {
		if !cp.pathScoped {
			if cp.glob.Match(base) {
				return true
			}
			continue
		}
		// "vendor/**" should also match the directory "vendor" itself.
		if cp.glob.Match(relPath) || cp.glob.Match(relPath+"/**") {
			return true
		}
	}

	return false
}

// DiscoverFiles walks the tree and returns the absolute paths of text files that
// pass the ignore rules and size limit, sorted.
func (fd *FileDiscovery) DiscoverFiles(ctx context.Context) ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(fd.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == fd.rootDir {
				return err
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == fd.rootDir {
			return nil
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}

		if fd.ShouldIgnore(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if fd.maxFileSize > 0 {
			info, err := d.Info()
			if err != nil || info.Size() > fd.maxFileSize {
				return nil
			}
		}

		if IsBinary(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// IsBinary reports whether the file has a NUL byte in its first 8000 bytes.
// Unreadable files are reported as not binary so the scanner surfaces the error.
func IsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, binarySniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}
