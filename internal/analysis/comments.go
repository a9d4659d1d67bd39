package analysis

import (
	"strings"

	"github.com/mvp-joe/sourcelens/internal/lang"
)

// FilterComments strips comments for the language of extension (no leading dot).
// When include is true the content is returned unchanged. Unknown extensions pass
// through. String literals that contain comment-like text are not protected.
func (s *Scanner) FilterComments(content, extension string, include bool) string {
	return filterComments(content, s.lib.Lookup(extension), s.lib.Markers(), include)
}

func filterComments(content string, l *lang.Language, markers lang.Markers, include bool) string {
	if include {
		return content
	}

	switch l.Comments {
	case lang.CommentCStyle:
		return filterCStyle(content, markers)
	case lang.CommentHash:
		return filterHash(content)
	default:
		return content
	}
}

// filterCStyle removes "/* */" blocks first, then "//" suffixes, then drops every
// line left blank. Text with no comment syntax is returned unchanged.
func filterCStyle(content string, markers lang.Markers) string {
	if !strings.Contains(content, "/*") && !strings.Contains(content, "//") {
		return content
	}

	out := markers.BlockComment.ReplaceAllString(content, "")
	out = markers.LineComment.ReplaceAllString(out, "")

	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

// filterHash drops whole lines starting with "#". Trailing "#" comments and
// docstrings are left alone.
func filterHash(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
