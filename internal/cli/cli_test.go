package cli

// Test Plan for CLI commands:
// - version prints the build information
// - deps, funcs and todos render JSON by default and honor --format text/yaml
// - strip prints the file without comments; --include-comments keeps them
// - tokens --strip estimates on the stripped text
// - project and resolve report on real directories
// - scan renders a full report with import cycles and per-file errors
// - output.format from .sourcelens/config.yml applies unless --format is given
// - graph answers --file, --dependents and --cycles, and requires one of them
// - invalid formats and unreadable files are reported as errors
//
// Commands share package-level flag state, so these tests do not run in parallel.

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/sourcelens/internal/analysis"
	"github.com/mvp-joe/sourcelens/internal/config"
	"github.com/mvp-joe/sourcelens/internal/depgraph"
	"github.com/mvp-joe/sourcelens/internal/tokens"
)

// executeCommand runs the root command with args against a clean flag state and
// an isolated home directory. The config root defaults to a fresh temp dir.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	resetFlags()
	t.Cleanup(resetFlags)

	hasRoot := false
	for _, a := range args {
		if strings.HasPrefix(a, "--config-root") {
			hasRoot = true
		}
	}
	if !hasRoot {
		args = append(args, "--config-root", t.TempDir())
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func resetFlags() {
	configRoot = ""
	verbose = false
	outputFormat = "json"
	scanWorkers = 0
	scanQuiet = false
	scanIgnore = nil
	graphFile = ""
	graphDependents = false
	graphDepth = depgraph.DefaultDepth
	graphCycles = false
	stripIncludeComments = false
	tokensStripComments = false

	unchange := func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		c.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
	unchange(rootCmd)
	for _, c := range rootCmd.Commands() {
		unchange(c)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// cycleFixture writes a.ts <-> b.ts with b.ts also importing c.ts.
func cycleFixture(t *testing.T) (dir, a, b, c string) {
	t.Helper()

	dir = t.TempDir()
	writeFile(t, dir, "package.json", "{}\n")
	a = writeFile(t, dir, "a.ts", "import { b } from './b'\n")
	b = writeFile(t, dir, "b.ts", "import { a } from './a'\nimport { c } from './c'\n")
	c = writeFile(t, dir, "c.ts", "// TODO: export more\nexport const c = 1\n")
	return dir, a, b, c
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "sourcelens "+Version)
	assert.Contains(t, out, "Git commit: "+GitCommit)
}

func TestDeps(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.py", "import os\nfrom .utils import helper\n")

	out, err := executeCommand(t, "deps", path)
	require.NoError(t, err)

	var deps []analysis.Dependency
	require.NoError(t, json.Unmarshal([]byte(out), &deps))
	require.Len(t, deps, 2)
	assert.Equal(t, "os", deps[0].Dependency)
	assert.Equal(t, ".utils", deps[1].Dependency)
	assert.Equal(t, "from", deps[1].ImportType)

	out, err = executeCommand(t, "deps", path, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "DEPENDENCY")
	assert.Contains(t, out, ".utils")
}

func TestFuncsAndTodos(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lib.rs", "// FIXME: handle overflow\nfn add(a: i32, b: i32) -> i32 {\n    a + b\n}\n")

	out, err := executeCommand(t, "funcs", path, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "2-4")
	assert.Contains(t, out, "add")

	out, err = executeCommand(t, "todos", path, "--format", "yaml")
	require.NoError(t, err)

	var notes []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "FIXME", notes[0]["todo_type"])
	assert.Equal(t, "handle overflow", notes[0]["message"])
}

func TestStrip(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.py", "# comment\nx = 1\n")

	out, err := executeCommand(t, "strip", path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", out)

	out, err = executeCommand(t, "strip", path, "--include-comments")
	require.NoError(t, err)
	assert.Equal(t, "# comment\nx = 1\n", out)
}

func TestTokens(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.py", "# a rather long comment line\nx = 1\n")

	out, err := executeCommand(t, "tokens", path, "--strip")
	require.NoError(t, err)

	var est tokens.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &est))
	assert.Equal(t, tokens.EstimateText("x = 1\n"), est)
}

func TestProjectAndResolve(t *testing.T) {
	dir, a, b, _ := cycleFixture(t)

	out, err := executeCommand(t, "project", dir, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "package.json")

	out, err = executeCommand(t, "resolve", a)
	require.NoError(t, err)

	var resolved []string
	require.NoError(t, json.Unmarshal([]byte(out), &resolved))
	assert.Equal(t, []string{b}, resolved)
}

func TestScan(t *testing.T) {
	dir, a, b, _ := cycleFixture(t)
	writeFile(t, dir, "broken.ts", "const s = \"\xff\xfe\"\n")

	out, err := executeCommand(t, "scan", dir, "--quiet")
	require.NoError(t, err)

	var report analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Files, 4) // a, b, c and package.json
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "encoding", report.Errors[0].Kind)
	assert.Equal(t, [][]string{{a, b}}, report.Cycles)
	assert.Positive(t, report.Totals.TotalTokens)

	out, err = executeCommand(t, "scan", dir, "--quiet", "--ignore", "broken.ts", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Import cycles:")
	assert.Contains(t, out, "a.ts -> b.ts")
	assert.NotContains(t, out, "Errors:")
}

func TestScan_FormatFromConfig(t *testing.T) {
	dir, _, _, _ := cycleFixture(t)
	cfgRoot := t.TempDir()
	writeFile(t, cfgRoot, filepath.Join(config.DirName, "config.yml"), "output:\n  format: yaml\n")

	out, err := executeCommand(t, "scan", dir, "--quiet", "--config-root", cfgRoot)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "root")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "should not be JSON")

	out, err = executeCommand(t, "scan", dir, "--quiet", "--config-root", cfgRoot, "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "flag should override config")
}

func TestGraph(t *testing.T) {
	dir, a, b, c := cycleFixture(t)

	out, err := executeCommand(t, "graph", dir, "--quiet", "--file", b)
	require.NoError(t, err)

	var result GraphResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "dependencies", result.Operation)
	assert.Equal(t, []string{a, c}, result.Results)

	result = GraphResult{}
	out, err = executeCommand(t, "graph", dir, "--quiet", "--file", c, "--dependents", "--depth", "2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "dependents", result.Operation)
	assert.Equal(t, []string{a, b}, result.Results)

	out, err = executeCommand(t, "graph", dir, "--quiet", "--cycles", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "a.ts -> b.ts\n", out)

	_, err = executeCommand(t, "graph", dir, "--quiet")
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.py", "import os\n")

	_, err := executeCommand(t, "deps", path, "--format", "xml")
	assert.ErrorIs(t, err, config.ErrInvalidFormat)

	_, err = executeCommand(t, "deps", filepath.Join(t.TempDir(), "missing.py"))
	assert.ErrorIs(t, err, analysis.ErrIO)

	_, err = executeCommand(t, "deps")
	assert.Error(t, err, "FILE argument is required")
}
