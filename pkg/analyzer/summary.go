package analyzer

import (
	"path/filepath"
	"sort"
	"strings"
)

// ProjectSummary is a high-level snapshot of the repository, computed fresh
// from the canonical file list on every call.
type ProjectSummary struct {
	TotalFiles    int            `json:"total_files"`
	FileTypes     map[string]int `json:"file_types"`
	KeyFiles      []string       `json:"key_files"`
	TopLevelDirs  []string       `json:"top_level_dirs"`
	HasTests      bool           `json:"has_tests"`
	HasDocs       bool           `json:"has_docs"`
}

// keyFileMarkers identify files worth surfacing up front: documentation,
// licensing, dependency manifests, CI and build configuration.
var keyFileMarkers = []string{
	"readme", "license", "contributing", "changelog",
	"requirements.txt", "pyproject.toml", "setup.py", "pipfile",
	"package.json", "go.mod", "cargo.toml", "pom.xml", "build.gradle",
	"dockerfile", "docker-compose", "makefile",
	".github", ".gitlab-ci", "jenkinsfile",
	"config", "settings",
}

// ProjectSummary derives the overview the agent sees before any targeted
// investigation: counts, file type histogram (top 10), key files, top-level
// layout, and test/docs presence.
func (a *Analyzer) ProjectSummary() ProjectSummary {
	files := a.ListFiles(ListOptions{})

	summary := ProjectSummary{
		TotalFiles: len(files),
		FileTypes:  make(map[string]int),
	}

	typeCounts := make(map[string]int)
	dirSet := make(map[string]bool)
	keySet := make(map[string]bool)

	for _, path := range files {
		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = "(none)"
		}
		typeCounts[ext]++

		if dir, _, found := strings.Cut(path, "/"); found {
			dirSet[dir] = true
		}

		lower := strings.ToLower(path)
		base := strings.ToLower(filepath.Base(path))
		for _, marker := range keyFileMarkers {
			if strings.Contains(base, marker) || strings.HasPrefix(lower, marker) {
				if !keySet[path] {
					keySet[path] = true
					summary.KeyFiles = append(summary.KeyFiles, path)
				}
				break
			}
		}

		if strings.Contains(lower, "test") {
			summary.HasTests = true
		}
		if strings.HasPrefix(lower, "docs/") || strings.HasPrefix(lower, "doc/") || strings.HasSuffix(lower, ".md") {
			summary.HasDocs = true
		}
	}

	// Keep only the ten most common file types.
	type extCount struct {
		ext   string
		count int
	}
	counts := make([]extCount, 0, len(typeCounts))
	for ext, count := range typeCounts {
		counts = append(counts, extCount{ext, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].ext < counts[j].ext
	})
	if len(counts) > 10 {
		counts = counts[:10]
	}
	for _, c := range counts {
		summary.FileTypes[c.ext] = c.count
	}

	for dir := range dirSet {
		summary.TopLevelDirs = append(summary.TopLevelDirs, dir)
	}
	sort.Strings(summary.TopLevelDirs)

	return summary
}
