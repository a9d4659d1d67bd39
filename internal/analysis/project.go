package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UnknownProject is reported when no marker file is present.
const UnknownProject = "Unknown"

// frameworkBonus favours a framework over the generic runtime it is built on.
const frameworkBonus = 2.0

type projectMarker struct {
	name  string // exact file name, or a suffix when suffix is true
	label string
	// suffix markers match any directory entry ending in name, e.g. "App.csproj".
	suffix bool
}

// projectMarkers is ordered; on equal scores the label listed first wins.
var projectMarkers = []projectMarker{
	{name: "package.json", label: "Node.js"},
	{name: "next.config.js", label: "Next.js"},
	{name: "next.config.ts", label: "Next.js"},
	{name: "Cargo.toml", label: "Rust"},
	{name: "requirements.txt", label: "Python"},
	{name: "pyproject.toml", label: "Python"},
	{name: "Pipfile", label: "Python"},
	{name: "go.mod", label: "Go"},
	{name: "pom.xml", label: "Java/Maven"},
	{name: "build.gradle", label: "Java/Gradle"},
	{name: "build.gradle.kts", label: "Java/Gradle"},
	{name: "Gemfile", label: "Ruby"},
	{name: "composer.json", label: "PHP"},
	{name: ".csproj", label: "C#/.NET", suffix: true},
}

// MarkerCount is the confidence denominator.
func MarkerCount() int {
	return len(projectMarkers)
}

// DetectProjectType scores dir against the marker table. Each marker found adds 1.0
// to its label; package.json plus a Next.js config adds a further 2.0 to Next.js.
// Confidence is the winning score divided by the number of markers in the table.
func (s *Scanner) DetectProjectType(dir string) (*ProjectType, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, ioError(dir, err)
	}
	if !info.IsDir() {
		return nil, ioError(dir, errors.New("not a directory"))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ioError(dir, err)
	}

	indicators := []string{}
	found := make(map[string]bool)
	scores := make(map[string]float64)
	var labels []string

	for _, m := range projectMarkers {
		matches := matchMarker(dir, m, entries)
		if len(matches) == 0 {
			continue
		}
		indicators = append(indicators, matches...)
		found[m.name] = true
		if _, seen := scores[m.label]; !seen {
			labels = append(labels, m.label)
		}
		scores[m.label] += 1.0
	}

	if found["package.json"] && (found["next.config.js"] || found["next.config.ts"]) {
		scores["Next.js"] += frameworkBonus
	}

	result := &ProjectType{
		DetectedType: UnknownProject,
		Confidence:   0,
		Indicators:   indicators,
	}

	best := 0.0
	for _, label := range labels {
		if scores[label] > best {
			best = scores[label]
			result.DetectedType = label
		}
	}
	if best > 0 {
		result.Confidence = min(best/float64(len(projectMarkers)), 1.0)
	}

	return result, nil
}

func matchMarker(dir string, m projectMarker, entries []os.DirEntry) []string {
	if !m.suffix {
		if _, err := os.Stat(filepath.Join(dir, m.name)); err == nil {
			return []string{m.name}
		}
		return nil
	}

	var matches []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), m.name) {
			matches = append(matches, e.Name())
		}
	}
	sort.Strings(matches)
	return matches
}
