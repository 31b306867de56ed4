// Package repository acquires the repository under evaluation: local paths
// are used in place, remote GitHub URLs are shallow-cloned into a temp
// directory the manager cleans up afterwards.
package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/alexeygrigorev/github-project-scorer/pkg/logging"
)

var (
	sshURLPattern = regexp.MustCompile(`^git@github\.com:([^/]+)/(.+?)(?:\.git)?$`)
	// https://github.com/user/repo[.git][/tree/branch][/path/to/folder]
	httpsURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/tree/([^/]+))?(?:/(.+?))?/?$`)
)

// Location is a parsed repository reference: where to clone from, which
// branch to check out, and which subfolder to evaluate.
type Location struct {
	CloneURL  string
	Branch    string // empty means the default branch
	Subfolder string // empty means the repository root
}

// ParseURL normalizes the GitHub URL formats users paste: https with or
// without .git, /tree/branch links with optional subfolders, and scp-style
// ssh remotes. Anything unrecognized is treated as a clone URL as-is.
func ParseURL(url string) Location {
	url = strings.TrimSpace(url)

	if m := sshURLPattern.FindStringSubmatch(url); m != nil {
		return Location{CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", m[1], m[2])}
	}

	if m := httpsURLPattern.FindStringSubmatch(url); m != nil {
		return Location{
			CloneURL:  fmt.Sprintf("https://github.com/%s/%s.git", m[1], m[2]),
			Branch:    m[3],
			Subfolder: m[4],
		}
	}

	if strings.HasSuffix(url, ".git") {
		return Location{CloneURL: url}
	}
	return Location{CloneURL: strings.TrimRight(url, "/") + ".git"}
}

// Manager clones repositories and tracks what it cloned for cleanup.
type Manager struct {
	baseTempDir string
	logger      *logging.Logger
	cloned      []string
}

// NewManager creates a manager that clones under baseTempDir (the system
// temp directory when empty).
func NewManager(baseTempDir string, logger *logging.Logger) *Manager {
	if baseTempDir == "" {
		baseTempDir = os.TempDir()
	}
	return &Manager{baseTempDir: baseTempDir, logger: logger}
}

// Acquire resolves repoRef into a local directory ready for analysis.
// Existing local directories pass through untouched; everything else is
// parsed as a GitHub URL and shallow-cloned.
func (m *Manager) Acquire(ctx context.Context, repoRef string) (string, error) {
	if info, err := os.Stat(repoRef); err == nil && info.IsDir() {
		abs, err := filepath.Abs(repoRef)
		if err != nil {
			return "", fmt.Errorf("failed to resolve local path: %w", err)
		}
		m.logInfo("repository.local", map[string]any{"path": abs})
		return abs, nil
	}

	location := ParseURL(repoRef)
	targetDir := filepath.Join(m.baseTempDir, "project_scorer_"+repoDirName(location.CloneURL))

	// A stale clone from an earlier run is replaced, not reused.
	if err := os.RemoveAll(targetDir); err != nil {
		return "", fmt.Errorf("failed to clear clone target %s: %w", targetDir, err)
	}

	cloneOpts := &git.CloneOptions{
		URL:   location.CloneURL,
		Depth: 1,
	}
	if location.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(location.Branch)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, targetDir, false, cloneOpts); err != nil {
		return "", fmt.Errorf("failed to clone repository %s: %w", location.CloneURL, err)
	}
	m.cloned = append(m.cloned, targetDir)
	m.logInfo("repository.cloned", map[string]any{
		"url":    location.CloneURL,
		"target": targetDir,
	})

	if location.Subfolder != "" {
		subPath := filepath.Join(targetDir, filepath.FromSlash(location.Subfolder))
		if info, err := os.Stat(subPath); err != nil || !info.IsDir() {
			return "", fmt.Errorf("subfolder %q does not exist in repository", location.Subfolder)
		}
		return subPath, nil
	}
	return targetDir, nil
}

// Cleanup removes every directory this manager cloned. Local repositories
// passed through Acquire are never touched.
func (m *Manager) Cleanup() {
	for _, path := range m.cloned {
		if err := os.RemoveAll(path); err != nil {
			m.logWarn("repository.cleanup_failed", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		m.logInfo("repository.cleaned", map[string]any{"path": path})
	}
	m.cloned = nil
}

// repoDirName flattens "https://github.com/user/repo.git" into "user_repo".
func repoDirName(cloneURL string) string {
	name := cloneURL
	if idx := strings.Index(name, "github.com/"); idx >= 0 {
		name = name[idx+len("github.com/"):]
	} else if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	name = strings.Trim(name, "/")
	return strings.ReplaceAll(name, "/", "_")
}

func (m *Manager) logInfo(eventType string, details map[string]any) {
	if m.logger == nil {
		return
	}
	m.logger.Info(logging.CategoryRepository, eventType, "", details)
}

func (m *Manager) logWarn(eventType string, details map[string]any) {
	if m.logger == nil {
		return
	}
	m.logger.Warn(logging.CategoryRepository, eventType, "", details)
}
