package analyzer

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// gitIgnore matches paths against the repository's .gitignore patterns.
// Patterns are parsed once at analyzer construction; later-listed patterns
// win, so negations behave like git's.
type gitIgnore struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern  string
	negation bool
	dirOnly  bool
}

// loadGitIgnore reads .gitignore from the repository root. A missing or
// unreadable file yields an empty matcher, never an error.
func loadGitIgnore(root string) *gitIgnore {
	gi := &gitIgnore{}

	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return gi
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := ignorePattern{}
		if strings.HasPrefix(line, "!") {
			p.negation = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		p.pattern = line
		gi.patterns = append(gi.patterns, p)
	}

	return gi
}

// Match reports whether a repository-relative path is ignored.
func (gi *gitIgnore) Match(path string) bool {
	if gi == nil || len(gi.patterns) == 0 {
		return false
	}

	path = filepath.ToSlash(path)

	matched := false
	for _, p := range gi.patterns {
		if matchIgnorePattern(path, p.pattern) {
			matched = !p.negation
		}
	}
	return matched
}

func matchIgnorePattern(path, pattern string) bool {
	// Anchored patterns match from the repository root only.
	if strings.HasPrefix(pattern, "/") {
		return matchIgnoreGlob(path, strings.TrimPrefix(pattern, "/"))
	}

	// Patterns containing a slash match against the full relative path.
	if strings.Contains(pattern, "/") {
		return matchIgnoreGlob(path, pattern) || matchIgnoreGlob(path, "**/"+pattern)
	}

	// Bare patterns match any path segment.
	for _, part := range strings.Split(path, "/") {
		if matchIgnoreGlob(part, pattern) {
			return true
		}
	}
	return false
}

func matchIgnoreGlob(name, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			return false
		}
		if suffix != "" && !strings.HasSuffix(name, suffix) {
			return false
		}
		return true
	}

	matched, _ := filepath.Match(pattern, name)
	if matched {
		return true
	}
	matched, _ = filepath.Match(pattern, filepath.Base(name))
	return matched
}
