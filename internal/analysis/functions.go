package analysis

import (
	"strings"
	"unicode"

	"github.com/mvp-joe/sourcelens/internal/lang"
)

// MaxScanLines bounds how far past a declaration the brace search may look.
// Unbalanced input is truncated at the cap instead of scanning to the end.
const MaxScanLines = 1000

// ExtractFunctions reads path and returns approximate function spans.
// Languages without a declaration pattern yield an empty slice.
func (s *Scanner) ExtractFunctions(path string) ([]Function, error) {
	content, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return extractFunctions(path, splitLines(content), s.lib.ForPath(path)), nil
}

// ExtractFunctionsIn extracts functions from content already in memory.
func (s *Scanner) ExtractFunctionsIn(path, content string, l *lang.Language) []Function {
	return extractFunctions(path, splitLines(content), l)
}

func extractFunctions(file string, lines []string, l *lang.Language) []Function {
	functions := []Function{}
	if l.Function == nil {
		return functions
	}

	var findEnd func(lines []string, start int) int
	switch l.Family {
	case lang.FamilyBrace:
		findEnd = braceEnd
	case lang.FamilyIndent:
		findEnd = indentEnd
	default:
		return functions
	}

	for i, line := range lines {
		subject := line
		if l.Function.Trimmed {
			subject = strings.TrimSpace(line)
		}
		m := l.Function.Regexp.FindStringSubmatch(subject)
		if m == nil {
			continue
		}

		end := findEnd(lines, i)
		functions = append(functions, Function{
			File:      file,
			Name:      m[1],
			Signature: strings.TrimSpace(line),
			LineStart: i + 1,
			LineEnd:   end + 1,
			Content:   strings.Join(lines[i:end+1], "\n"),
		})
	}

	return functions
}

// braceEnd returns the 0-based index of the line where brace depth, counted from
// the declaration line, returns to zero after the body has opened.
func braceEnd(lines []string, start int) int {
	line := lines[start]
	opens := strings.Count(line, "{")
	depth := opens - strings.Count(line, "}")
	opened := opens > 0

	if opened && depth <= 0 {
		return start
	}
	// Bodiless declaration, e.g. a trait method or prototype.
	if !opened && strings.HasSuffix(strings.TrimSpace(line), ";") {
		return start
	}

	last := min(start+MaxScanLines, len(lines)-1)
	for i := start + 1; i <= last; i++ {
		o := strings.Count(lines[i], "{")
		depth += o - strings.Count(lines[i], "}")
		if o > 0 {
			opened = true
		}
		if opened && depth <= 0 {
			return i
		}
		// Closed the enclosing block before the body ever opened.
		if !opened && depth < 0 {
			return i - 1
		}
	}
	return last
}

// indentEnd returns the 0-based index of the last line of an indentation-delimited
// body: the line before the first later non-blank line indented no deeper than the
// declaration. Blank lines never end the body but are kept inside it.
func indentEnd(lines []string, start int) int {
	base := indentWidth(lines[start])
	end := start

	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" && indentWidth(lines[i]) <= base {
			return i - 1
		}
		end = i
	}
	return end
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}
