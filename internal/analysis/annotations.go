package analysis

import (
	"strings"

	"github.com/mvp-joe/sourcelens/internal/lang"
)

// ExtractAnnotations reads path and returns TODO/FIXME/NOTE/HACK/XXX markers.
// Detection is per physical line and independent of the file's language.
func (s *Scanner) ExtractAnnotations(path string) ([]Annotation, error) {
	content, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return extractAnnotations(path, splitLines(content), s.lib.Markers()), nil
}

// ExtractAnnotationsIn extracts annotations from content already in memory.
func (s *Scanner) ExtractAnnotationsIn(path, content string) []Annotation {
	return extractAnnotations(path, splitLines(content), s.lib.Markers())
}

func extractAnnotations(file string, lines []string, markers lang.Markers) []Annotation {
	annotations := []Annotation{}

	for i, line := range lines {
		m := markers.Annotation.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		msg := strings.TrimSpace(m[2])
		msg = strings.TrimSpace(strings.TrimSuffix(msg, "*/"))

		annotations = append(annotations, Annotation{
			File:       file,
			Kind:       m[1],
			Message:    msg,
			LineNumber: i + 1,
			Context:    strings.TrimSpace(line),
		})
	}

	return annotations
}
