// Package lang classifies source files by extension and holds the per-language
// pattern tables used by the scanner. Tables are compiled once and never mutated,
// so a Library can be shared freely between goroutines.
package lang

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Family selects the boundary heuristic used for function extraction.
type Family int

const (
	// FamilyUnsupported files pass through without extraction.
	FamilyUnsupported Family = iota
	// FamilyBrace languages delimit blocks with curly braces.
	FamilyBrace
	// FamilyIndent languages delimit blocks with indentation.
	FamilyIndent
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyBrace:
		return "brace"
	case FamilyIndent:
		return "indent"
	default:
		return "unsupported"
	}
}

// CommentSyntax selects the comment filter strategy.
type CommentSyntax int

const (
	CommentNone   CommentSyntax = iota
	CommentCStyle               // "//" line comments and "/* */" blocks
	CommentHash                 // "#" line comments
)

// Import kinds reported on dependencies.
const (
	KindImport  = "import"
	KindRequire = "require"
	KindUse     = "use"
	KindFrom    = "from"
)

// ImportPattern is a single-line import matcher. The first capture group is the
// dependency specifier.
type ImportPattern struct {
	Kind   string
	Regexp *regexp.Regexp
	// Trimmed patterns are matched against the line with surrounding whitespace removed.
	Trimmed bool
}

// FunctionPattern matches a function declaration line. The first capture group
// is the function name.
type FunctionPattern struct {
	Regexp  *regexp.Regexp
	Trimmed bool
}

// Language is the immutable scanning profile for a group of extensions.
type Language struct {
	Name     string
	Family   Family
	Comments CommentSyntax
	Imports  []ImportPattern
	Function *FunctionPattern
}

// Supported reports whether any extraction applies to the language.
func (l *Language) Supported() bool {
	return l.Family != FamilyUnsupported || l.Comments != CommentNone
}

// Unsupported is returned for unknown extensions.
var Unsupported = &Language{Name: "unknown", Family: FamilyUnsupported, Comments: CommentNone}

// Library maps file extensions to languages.
type Library struct {
	byExt   map[string]*Language
	markers Markers
}

// Markers returns the comment and annotation patterns.
func (lib *Library) Markers() Markers {
	return lib.markers
}

// Lookup returns the language for an extension (no leading dot, case-sensitive).
// Unknown and empty extensions map to Unsupported.
func (lib *Library) Lookup(ext string) *Language {
	if l, ok := lib.byExt[ext]; ok {
		return l
	}
	return Unsupported
}

// ForPath classifies a file path by its extension.
func (lib *Library) ForPath(path string) *Language {
	return lib.Lookup(Extension(path))
}

// Extensions returns all registered extensions, sorted.
func (lib *Library) Extensions() []string {
	exts := make([]string, 0, len(lib.byExt))
	for ext := range lib.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extension returns the extension of path without the leading dot.
func Extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// NewLibrary compiles the language table.
func NewLibrary() *Library {
	lib := &Library{
		byExt:   make(map[string]*Language),
		markers: compileMarkers(),
	}
	for _, def := range definitions() {
		for _, ext := range def.extensions {
			lib.byExt[ext] = def.language
		}
	}
	return lib
}

var defaultLibrary = sync.OnceValue(NewLibrary)

// Default returns the shared, lazily compiled library.
func Default() *Library {
	return defaultLibrary()
}
