package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Function Extractor:
// - function foo() {...} over three lines yields lines 1..3
// - N balanced declarations yield N records whose content equals the joined lines
// - Arrow functions and nested braces are tracked by depth
// - Single-line bodies end on the declaration line
// - Rust trait declarations ending in ';' do not swallow following code
// - Unbalanced braces are truncated at the scan cap
// - Python bodies end before the first dedented non-blank line
// - Python blank lines stay inside the body; EOF closes the last function
// - Python bodies longer than the brace scan cap are not truncated
// - Go funcs and methods are extracted
// - Unsupported languages return an empty list

func assertContentMatches(t *testing.T, src string, fns []Function) {
	t.Helper()

	lines := splitLines(src)
	for _, fn := range fns {
		require.LessOrEqual(t, fn.LineStart, fn.LineEnd, fn.Name)
		want := strings.Join(lines[fn.LineStart-1:fn.LineEnd], "\n")
		assert.Equal(t, want, fn.Content, fn.Name)
	}
}

func TestExtractFunctions_SimpleJS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "foo.js", "function foo() {\n  return 1;\n}")

	fns, err := NewScanner().ExtractFunctions(path)
	require.NoError(t, err)
	require.Len(t, fns, 1)

	assert.Equal(t, "foo", fns[0].Name)
	assert.Equal(t, 1, fns[0].LineStart)
	assert.Equal(t, 3, fns[0].LineEnd)
	assert.Equal(t, "function foo() {", fns[0].Signature)
	assert.Equal(t, "function foo() {\n  return 1;\n}", fns[0].Content)
}

func TestExtractFunctions_BalancedCount(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "function f%d(a, b) {\n  if (a) {\n    return b;\n  }\n  return a;\n}\n\n", i)
	}
	src := b.String()

	s := NewScanner()
	fns := s.ExtractFunctionsIn("gen.js", src, s.Library().Lookup("js"))

	require.Len(t, fns, 5)
	for i, fn := range fns {
		assert.Equal(t, fmt.Sprintf("f%d", i), fn.Name)
		assert.Equal(t, fn.LineStart+5, fn.LineEnd)
	}
	assertContentMatches(t, src, fns)
}

func TestExtractFunctions_ArrowAndOneLiner(t *testing.T) {
	t.Parallel()

	src := `const add = (a, b) => {
  const obj = { a, b };
  return a + b;
};
let noop = () => {};
function after() {
  return 2;
}`

	s := NewScanner()
	fns := s.ExtractFunctionsIn("a.ts", src, s.Library().Lookup("ts"))

	require.Len(t, fns, 3)
	assert.Equal(t, "add", fns[0].Name)
	assert.Equal(t, 1, fns[0].LineStart)
	assert.Equal(t, 4, fns[0].LineEnd)

	assert.Equal(t, "noop", fns[1].Name)
	assert.Equal(t, 5, fns[1].LineStart)
	assert.Equal(t, 5, fns[1].LineEnd)

	assert.Equal(t, "after", fns[2].Name)
	assert.Equal(t, 6, fns[2].LineStart)
	assert.Equal(t, 8, fns[2].LineEnd)
	assertContentMatches(t, src, fns)
}

func TestExtractFunctions_RustTraitDeclaration(t *testing.T) {
	t.Parallel()

	src := `trait Shape {
    fn area(&self) -> f64;
}

fn main() {
    println!("hi");
}`

	s := NewScanner()
	fns := s.ExtractFunctionsIn("lib.rs", src, s.Library().Lookup("rs"))

	require.Len(t, fns, 2)
	assert.Equal(t, "area", fns[0].Name)
	assert.Equal(t, 2, fns[0].LineStart)
	assert.Equal(t, 2, fns[0].LineEnd)

	assert.Equal(t, "main", fns[1].Name)
	assert.Equal(t, 5, fns[1].LineStart)
	assert.Equal(t, 7, fns[1].LineEnd)
}

func TestExtractFunctions_RunawayCap(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("function broken() {\n")
	for i := 0; i < MaxScanLines+500; i++ {
		b.WriteString("  x++;\n")
	}
	src := b.String()

	s := NewScanner()
	fns := s.ExtractFunctionsIn("broken.js", src, s.Library().Lookup("js"))

	require.Len(t, fns, 1)
	assert.Equal(t, 1, fns[0].LineStart)
	assert.Equal(t, 1+MaxScanLines, fns[0].LineEnd)
	assertContentMatches(t, src, fns)
}

func TestExtractFunctions_UnterminatedAtEOF(t *testing.T) {
	t.Parallel()

	src := "function open() {\n  if (x) {\n"
	s := NewScanner()
	fns := s.ExtractFunctionsIn("open.js", src, s.Library().Lookup("js"))

	require.Len(t, fns, 1)
	assert.Equal(t, 2, fns[0].LineEnd)
}

func TestExtractFunctions_Python(t *testing.T) {
	t.Parallel()

	src := `import os

def first(a):
    x = a

    return x

class Thing:
    def method(self):
        pass
    def other(self) -> int:
        return 1

def last():
    return 0
`

	s := NewScanner()
	fns := s.ExtractFunctionsIn("mod.py", src, s.Library().Lookup("py"))

	require.Len(t, fns, 4)

	assert.Equal(t, "first", fns[0].Name)
	assert.Equal(t, 3, fns[0].LineStart)
	// Trailing blank line before "class" stays in the body.
	assert.Equal(t, 7, fns[0].LineEnd)

	assert.Equal(t, "method", fns[1].Name)
	assert.Equal(t, 9, fns[1].LineStart)
	assert.Equal(t, 10, fns[1].LineEnd)
	assert.Equal(t, "def method(self):", fns[1].Signature)

	assert.Equal(t, "other", fns[2].Name)
	assert.Equal(t, 11, fns[2].LineStart)
	assert.Equal(t, 13, fns[2].LineEnd)

	assert.Equal(t, "last", fns[3].Name)
	assert.Equal(t, 14, fns[3].LineStart)
	assert.Equal(t, 15, fns[3].LineEnd)

	assertContentMatches(t, src, fns)
}

func TestExtractFunctions_PythonLongBody(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("def long():\n")
	for i := 0; i < MaxScanLines+500; i++ {
		fmt.Fprintf(&b, "    x%d = %d\n", i, i)
	}
	body := b.String()

	s := NewScanner()
	py := s.Library().Lookup("py")

	fns := s.ExtractFunctionsIn("long.py", body, py)
	require.Len(t, fns, 1)
	assert.Equal(t, 1, fns[0].LineStart)
	assert.Equal(t, MaxScanLines+501, fns[0].LineEnd)
	assertContentMatches(t, body, fns)

	src := body + "def after():\n    pass\n"
	fns = s.ExtractFunctionsIn("long.py", src, py)
	require.Len(t, fns, 2)
	assert.Equal(t, MaxScanLines+501, fns[0].LineEnd)
	assert.Equal(t, "after", fns[1].Name)
	assert.Equal(t, MaxScanLines+502, fns[1].LineStart)
	assertContentMatches(t, src, fns)
}

func TestExtractFunctions_Go(t *testing.T) {
	t.Parallel()

	src := `package main

func (s *Server) Start() error {
	go func() {
		s.run()
	}()
	return nil
}

func main() {
	fmt.Println("hi")
}
`

	s := NewScanner()
	fns := s.ExtractFunctionsIn("main.go", src, s.Library().Lookup("go"))

	require.Len(t, fns, 2)
	assert.Equal(t, "Start", fns[0].Name)
	assert.Equal(t, 3, fns[0].LineStart)
	assert.Equal(t, 8, fns[0].LineEnd)
	assert.Equal(t, "main", fns[1].Name)
	assert.Equal(t, 10, fns[1].LineStart)
	assert.Equal(t, 12, fns[1].LineEnd)
}

func TestExtractFunctions_Unsupported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "Main.java", "public void run() {\n}\n")

	fns, err := NewScanner().ExtractFunctions(path)
	require.NoError(t, err)
	assert.NotNil(t, fns)
	assert.Empty(t, fns)
}
