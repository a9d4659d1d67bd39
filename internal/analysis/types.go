package analysis

import (
	"time"

	"github.com/mvp-joe/sourcelens/internal/tokens"
)

// Dependency is a single import statement found in a file.
type Dependency struct {
	File       string `json:"file" yaml:"file"`
	Dependency string `json:"dependency" yaml:"dependency"`   // raw specifier as written
	ImportType string `json:"import_type" yaml:"import_type"` // "import", "require", "use", "from"
	LineNumber int    `json:"line_number" yaml:"line_number"` // 1-based
}

// Function is an approximate function span. Content is exactly the source lines
// LineStart..LineEnd (inclusive) joined with "\n".
type Function struct {
	File      string `json:"file" yaml:"file"`
	Name      string `json:"name" yaml:"name"`
	Signature string `json:"signature" yaml:"signature"`
	LineStart int    `json:"line_start" yaml:"line_start"`
	LineEnd   int    `json:"line_end" yaml:"line_end"`
	Content   string `json:"content" yaml:"content"`
}

// Annotation is a TODO-class comment marker.
type Annotation struct {
	File       string `json:"file" yaml:"file"`
	Kind       string `json:"todo_type" yaml:"todo_type"` // TODO, FIXME, NOTE, HACK, XXX
	Message    string `json:"message" yaml:"message"`
	LineNumber int    `json:"line_number" yaml:"line_number"`
	Context    string `json:"context" yaml:"context"`
}

// ProjectType is a best-guess ecosystem for a directory.
type ProjectType struct {
	DetectedType string   `json:"detected_type" yaml:"detected_type"`
	Confidence   float64  `json:"confidence" yaml:"confidence"`
	Indicators   []string `json:"indicators" yaml:"indicators"`
}

// FileReport bundles every per-file analysis.
type FileReport struct {
	Path         string          `json:"path" yaml:"path"`
	Language     string          `json:"language" yaml:"language"`
	Dependencies []Dependency    `json:"dependencies" yaml:"dependencies"`
	Functions    []Function      `json:"functions" yaml:"functions"`
	Annotations  []Annotation    `json:"annotations" yaml:"annotations"`
	Imports      []string        `json:"imports" yaml:"imports"` // resolved local import paths
	Tokens       tokens.Estimate `json:"tokens" yaml:"tokens"`
}

// FileError records a per-file failure during a batch scan.
type FileError struct {
	Path    string `json:"path" yaml:"path"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Report is the result of a directory-wide scan.
type Report struct {
	ID          string          `json:"id" yaml:"id"`
	Root        string          `json:"root" yaml:"root"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Project     *ProjectType    `json:"project" yaml:"project"`
	Files       []FileReport    `json:"files" yaml:"files"`
	Errors      []FileError     `json:"errors,omitempty" yaml:"errors,omitempty"`
	Cycles      [][]string      `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Totals      tokens.Estimate `json:"totals" yaml:"totals"`
}
