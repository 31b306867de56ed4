package analyzer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultMaxResultsPerPattern caps matched lines per pattern.
const DefaultMaxResultsPerPattern = 50

// DefaultMaxFilesPerPattern caps distinct files per pattern.
const DefaultMaxFilesPerPattern = 20

// SearchOptions narrow a content search.
type SearchOptions struct {
	// Extensions restricts the scanned file set (with dot, e.g. ".py").
	Extensions []string

	// CaseSensitive controls pattern compilation; default is insensitive.
	CaseSensitive bool

	// MaxResultsPerPattern caps matched lines per pattern; zero means
	// DefaultMaxResultsPerPattern.
	MaxResultsPerPattern int

	// MaxFilesPerPattern caps distinct contributing files per pattern;
	// zero means DefaultMaxFilesPerPattern.
	MaxFilesPerPattern int
}

// SearchResults maps pattern -> file path -> matched lines ("Line N: text").
type SearchResults map[string]map[string][]string

// patternState tracks one pattern's remaining budget during a scan.
// Budgets are never shared across patterns: a pattern that exhausts its line
// budget closes without starving the others, and a single huge file cannot
// dominate a pattern's result set beyond the per-file cap.
type patternState struct {
	pattern    string
	re         *regexp.Regexp
	lineCount  int
	fileSet    map[string]bool
	maxResults int
	maxFiles   int
}

func (s *patternState) open() bool {
	return s.lineCount < s.maxResults
}

func (s *patternState) admitFile(path string) bool {
	if s.fileSet[path] {
		return true
	}
	if len(s.fileSet) >= s.maxFiles {
		return false
	}
	s.fileSet[path] = true
	return true
}

// SearchContent runs every pattern over the filtered file set in one pass.
// Each candidate file is streamed line by line; every still-open pattern is
// tested against every line. Patterns that fail to compile are skipped, as
// are files that cannot be read: a direct read surfaces its error text, but
// a scan over many files must not abort on one bad entry.
func (a *Analyzer) SearchContent(patterns []string, opts SearchOptions) SearchResults {
	maxResults := opts.MaxResultsPerPattern
	if maxResults <= 0 {
		maxResults = DefaultMaxResultsPerPattern
	}
	maxFiles := opts.MaxFilesPerPattern
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFilesPerPattern
	}

	results := make(SearchResults, len(patterns))
	var states []*patternState
	for _, pattern := range patterns {
		expr := pattern
		if !opts.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			continue // bad regex closes this pattern, never the search
		}
		results[pattern] = make(map[string][]string)
		states = append(states, &patternState{
			pattern:    pattern,
			re:         re,
			fileSet:    make(map[string]bool),
			maxResults: maxResults,
			maxFiles:   maxFiles,
		})
	}
	if len(states) == 0 {
		return results
	}

	for _, path := range a.ListFiles(ListOptions{Extensions: opts.Extensions}) {
		if !anyOpen(states) {
			break
		}
		a.scanFile(path, states, results)
	}

	return results
}

func anyOpen(states []*patternState) bool {
	for _, s := range states {
		if s.open() {
			return true
		}
	}
	return false
}

func (a *Analyzer) scanFile(path string, states []*patternState, results SearchResults) {
	file, err := os.Open(filepath.Join(a.root, path))
	if err != nil {
		return // unreadable files are skipped silently during a scan
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		for _, s := range states {
			if !s.open() {
				continue
			}
			if !s.re.MatchString(line) {
				continue
			}
			if !s.admitFile(path) {
				continue
			}

			results[s.pattern][path] = append(
				results[s.pattern][path],
				fmt.Sprintf("Line %d: %s", lineNum, strings.TrimSpace(line)),
			)
			s.lineCount++
		}
	}
}
