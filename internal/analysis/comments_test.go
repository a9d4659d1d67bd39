package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for Comment Filter:
// - include=true returns input unchanged for every language
// - C-style: block comments (multi-line) and line comments are removed, then every blank line is dropped
// - C-style: code before a line comment is kept
// - Hash: whole-line comments dropped, inline trailing comments kept
// - Unknown extension passes through
// - Comment-free text is unchanged and filtering is idempotent

func TestFilterComments_IncludePassthrough(t *testing.T) {
	t.Parallel()

	s := NewScanner()
	src := "// header\nint x; /* c */\n"
	for _, ext := range []string{"js", "py", "go", "txt"} {
		assert.Equal(t, src, s.FilterComments(src, ext, true), ext)
	}
}

func TestFilterComments_CStyle(t *testing.T) {
	t.Parallel()

	src := `/**
 * Package doc.
 */
package main

// comment line
func main() { // trailing
	x := 1 /* inline */ + 2
}`

	want := `package main
func main() { 
	x := 1  + 2
}`

	assert.Equal(t, want, NewScanner().FilterComments(src, "go", false))
}

func TestFilterComments_CStyleDropsBlankLines(t *testing.T) {
	t.Parallel()

	s := NewScanner()
	assert.Equal(t, "a(); \nb();", s.FilterComments("a(); // c\n\nb();", "js", false))
	assert.Equal(t, "let x = 1;", s.FilterComments("let x = 1;\n   \n/* tail */\n", "rs", false))

	once := s.FilterComments("a(); // c\n\nb();", "js", false)
	assert.Equal(t, once, s.FilterComments(once, "js", false))
}

func TestFilterComments_Hash(t *testing.T) {
	t.Parallel()

	src := "#!/usr/bin/env python\n# comment\nx = 1  # trailing\n    # indented\ny = 2\n"
	want := "x = 1  # trailing\ny = 2\n"

	assert.Equal(t, want, NewScanner().FilterComments(src, "py", false))
	assert.Equal(t, "echo hi", NewScanner().FilterComments("# c\necho hi", "sh", false))
}

func TestFilterComments_UnknownExtension(t *testing.T) {
	t.Parallel()

	src := "// not stripped\n# nor this\n"
	assert.Equal(t, src, NewScanner().FilterComments(src, "md", false))
}

func TestFilterComments_IdempotentOnCommentFree(t *testing.T) {
	t.Parallel()

	s := NewScanner()
	cases := map[string]string{
		"js": "const a = 1;\n\nfunction f() {\n  return a;\n}\n",
		"py": "def f():\n\n    return 1\n",
		"rs": "fn main() {\n    let x = 2 / 1;\n}",
	}

	for ext, src := range cases {
		once := s.FilterComments(src, ext, false)
		assert.Equal(t, src, once, ext)
		assert.Equal(t, once, s.FilterComments(once, ext, false), ext)
	}
}
