package lang

import "regexp"

// Markers holds the cross-language comment patterns.
type Markers struct {
	// Annotation captures the marker keyword and the message after it.
	Annotation   *regexp.Regexp
	BlockComment *regexp.Regexp
	LineComment  *regexp.Regexp
}

func compileMarkers() Markers {
	return Markers{
		Annotation:   regexp.MustCompile(`(?://|#|/\*)\s*(TODO|FIXME|NOTE|HACK|XXX):?\s*(.*)`),
		BlockComment: regexp.MustCompile(`/\*[\s\S]*?\*/`),
		LineComment:  regexp.MustCompile(`(?m)//.*$`),
	}
}

type definition struct {
	extensions []string
	language   *Language
}

// definitions is the extension table. Adding a language means adding an entry here;
// call sites only ever see *Language.
func definitions() []definition {
	javascript := &Language{
		Name:     "javascript",
		Family:   FamilyBrace,
		Comments: CommentCStyle,
		Imports: []ImportPattern{
			{Kind: KindImport, Regexp: regexp.MustCompile(`import\s+.*?\s+from\s+['"]([^'"]+)['"]`)},
			{Kind: KindRequire, Regexp: regexp.MustCompile(`require\(['"]([^'"]+)['"]\)`)},
		},
		Function: &FunctionPattern{
			Regexp: regexp.MustCompile(`(?:function|const|let|var)\s+(\w+)\s*=?\s*(?:async\s*)?\([^)]*\)\s*(?:=>)?\s*\{`),
		},
	}

	python := &Language{
		Name:     "python",
		Family:   FamilyIndent,
		Comments: CommentHash,
		Imports: []ImportPattern{
			{Kind: KindImport, Regexp: regexp.MustCompile(`^import\s+(.+)$`), Trimmed: true},
			{Kind: KindFrom, Regexp: regexp.MustCompile(`^from\s+(.+?)\s+import`), Trimmed: true},
		},
		Function: &FunctionPattern{
			Regexp:  regexp.MustCompile(`^(?:async\s+)?def\s+(\w+)\s*\([^)]*\)\s*(?:->\s*[^:]+)?:`),
			Trimmed: true,
		},
	}

	rust := &Language{
		Name:     "rust",
		Family:   FamilyBrace,
		Comments: CommentCStyle,
		Imports: []ImportPattern{
			// Grouped imports stay verbatim: "std::{fs, io}" is one dependency.
			{Kind: KindUse, Regexp: regexp.MustCompile(`^use\s+([^;]+);`), Trimmed: true},
		},
		Function: &FunctionPattern{
			Regexp: regexp.MustCompile(`fn\s+(\w+)\s*(?:<[^>]*>)?\s*\([^)]*\)`),
		},
	}

	golang := &Language{
		Name:     "go",
		Family:   FamilyBrace,
		Comments: CommentCStyle,
		Imports: []ImportPattern{
			{Kind: KindImport, Regexp: regexp.MustCompile(`import\s+"([^"]+)"`)},
		},
		Function: &FunctionPattern{
			Regexp: regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?(\w+)\s*(?:\[[^\]]*\])?\s*\(`),
		},
	}

	clike := &Language{
		Name:     "c-like",
		Family:   FamilyBrace,
		Comments: CommentCStyle,
	}

	shell := &Language{
		Name:     "shell",
		Family:   FamilyUnsupported,
		Comments: CommentHash,
	}

	return []definition{
		{extensions: []string{"js", "jsx", "ts", "tsx", "mjs", "cjs"}, language: javascript},
		{extensions: []string{"py"}, language: python},
		{extensions: []string{"rs"}, language: rust},
		{extensions: []string{"go"}, language: golang},
		{extensions: []string{"java", "c", "cpp", "cc", "h", "hpp", "cs"}, language: clike},
		{extensions: []string{"sh", "bash"}, language: shell},
	}
}
