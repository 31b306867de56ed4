// Package analyzer provides read-only inspection of a repository checkout:
// gitignore-aware file listing, bounded file reading with notebook
// flattening, filename lookup, and multi-pattern content search.
//
// The analyzer is the backing store of the agent-facing tool surface, so its
// read paths never return Go errors for per-file problems: a failed read is
// reported as text, a file that cannot be scanned during search is skipped.
package analyzer

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFiles caps how many paths a single listing returns.
const DefaultMaxFiles = 1000

// DefaultMaxLines caps how many lines a single read returns.
const DefaultMaxLines = 1000

// defaultExcludes are directory name fragments that never contribute files:
// version control, dependency trees, build output, caches.
var defaultExcludes = []string{
	"__pycache__", ".git", "node_modules", ".venv", "venv",
	".pytest_cache", ".mypy_cache", "dist", "build",
}

// binaryExtensions block media, archives, executables, fonts: files the
// agent cannot usefully read as text.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".tiff": true, ".webp": true, ".svg": true, ".ico": true, ".pdf": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".dat": true, ".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".wav": true, ".flac": true, ".woff": true, ".woff2": true, ".ttf": true,
	".otf": true, ".eot": true, ".psd": true, ".ai": true, ".sketch": true,
	".fig": true,
}

// Analyzer inspects the files of one repository root.
// The repository is treated as read-only for the analyzer's lifetime.
type Analyzer struct {
	root      string
	gitignore *gitIgnore
}

// New creates an analyzer rooted at repoPath. The repository's .gitignore
// is parsed once here; later listing calls reuse the parsed rules.
func New(repoPath string) *Analyzer {
	root := filepath.Clean(repoPath)
	return &Analyzer{
		root:      root,
		gitignore: loadGitIgnore(root),
	}
}

// Root returns the repository root path.
func (a *Analyzer) Root() string { return a.root }

// ListOptions narrow a file listing.
type ListOptions struct {
	// Extensions is an allow-list of file extensions (with dot, e.g. ".go").
	Extensions []string

	// ExcludePatterns are caller-supplied substrings; any path containing
	// one is skipped, in addition to the default exclusions.
	ExcludePatterns []string

	// MaxFiles caps the result; zero means DefaultMaxFiles.
	MaxFiles int
}

// ListFiles walks the repository and returns relative paths in walk order.
// Filters apply in order: default exclusions, gitignore rules, caller
// exclude patterns, extension allow-list, binary block-list. The walk stops
// once MaxFiles paths have matched. Callers must not assume sorted output.
func (a *Analyzer) ListFiles(opts ListOptions) []string {
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	excludes := make([]string, 0, len(defaultExcludes)+len(opts.ExcludePatterns))
	excludes = append(excludes, opts.ExcludePatterns...)
	excludes = append(excludes, defaultExcludes...)

	extAllow := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extAllow[strings.ToLower(ext)] = true
	}

	var files []string
	filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if len(files) >= maxFiles {
			return filepath.SkipAll
		}

		rel, relErr := filepath.Rel(a.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			for _, pattern := range excludes {
				if strings.Contains(d.Name(), pattern) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if a.gitignore.Match(rel) {
			return nil
		}
		for _, pattern := range excludes {
			if strings.Contains(rel, pattern) {
				return nil
			}
		}

		ext := strings.ToLower(filepath.Ext(rel))
		if len(extAllow) > 0 && !extAllow[ext] {
			return nil
		}
		if binaryExtensions[ext] {
			return nil
		}

		files = append(files, rel)
		return nil
	})

	return files
}

// ReadFile returns up to maxLines lines of a file, resolved relative to the
// repository root. Notebook files are flattened to markdown with outputs
// stripped before the line limit applies. Failures are returned as text, not
// as errors: the tool surface must always hand the agent a string.
func (a *Analyzer) ReadFile(path string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(a.root, path)
	}

	if strings.EqualFold(filepath.Ext(fullPath), ".ipynb") {
		raw, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Sprintf("Error reading file %s: %v", path, err)
		}
		markdown, err := notebookToMarkdown(raw)
		if err != nil {
			return fmt.Sprintf("Error reading file %s: %v", path, err)
		}
		lines := strings.Split(markdown, "\n")
		if len(lines) > maxLines {
			lines = lines[:maxLines]
			lines = append(lines, fmt.Sprintf("\n... (notebook truncated after %d lines)", maxLines))
		}
		return strings.Join(lines, "\n")
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return fmt.Sprintf("Error reading file %s: %v", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(lines) >= maxLines {
			lines = append(lines, fmt.Sprintf("\n... (truncated after %d lines)", maxLines))
			break
		}
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	return strings.Join(lines, "\n")
}

// FindFilesByName returns paths whose filename matches any of the glob
// sub-patterns in pattern, joined by '|'. Matching is case-insensitive and
// filters the same canonical file list as ListFiles.
func (a *Analyzer) FindFilesByName(pattern string) []string {
	subPatterns := strings.Split(strings.ToLower(pattern), "|")

	var matches []string
	for _, path := range a.ListFiles(ListOptions{}) {
		name := strings.ToLower(filepath.Base(path))
		for _, sub := range subPatterns {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			if ok, _ := filepath.Match(sub, name); ok {
				matches = append(matches, path)
				break
			}
		}
	}
	return matches
}
