package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeRepo lays out a throwaway repository for analyzer tests.
func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func TestListFilesAppliesDefaultExclusions(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"main.py":                 "print('hi')\n",
		"README.md":               "# Project\n",
		".git/config":             "[core]\n",
		"node_modules/pkg/x.js":   "x\n",
		"__pycache__/main.pyc":    "bytecode",
		"build/out.txt":           "artifact",
		"src/app.py":              "app\n",
		"logo.png":                "not really a png",
		"assets/song.mp3":         "not really audio",
	})

	files := New(root).ListFiles(ListOptions{})

	got := make(map[string]bool, len(files))
	for _, f := range files {
		got[f] = true
	}

	require.True(t, got["main.py"])
	require.True(t, got["README.md"])
	require.True(t, got["src/app.py"])
	require.False(t, got[".git/config"], "version control dirs are excluded")
	require.False(t, got["node_modules/pkg/x.js"])
	require.False(t, got["__pycache__/main.pyc"])
	require.False(t, got["build/out.txt"])
	require.False(t, got["logo.png"], "binary extensions are excluded")
	require.False(t, got["assets/song.mp3"])
}

func TestListFilesRespectsGitignore(t *testing.T) {
	root := writeRepo(t, map[string]string{
		".gitignore":     "*.log\nsecrets/\n",
		"app.py":         "x\n",
		"debug.log":      "noise\n",
		"secrets/key.py": "key\n",
	})

	files := New(root).ListFiles(ListOptions{})
	joined := strings.Join(files, ",")

	require.Contains(t, joined, "app.py")
	require.NotContains(t, joined, "debug.log")
	require.NotContains(t, joined, "secrets/key.py")
}

func TestListFilesExtensionFilterAndCap(t *testing.T) {
	repo := map[string]string{}
	for i := 0; i < 20; i++ {
		repo["file"+strings.Repeat("x", i)+".py"] = "pass\n"
		repo["file"+strings.Repeat("y", i)+".js"] = "pass\n"
	}
	a := New(writeRepo(t, repo))

	pyOnly := a.ListFiles(ListOptions{Extensions: []string{".py"}})
	require.Len(t, pyOnly, 20)
	for _, f := range pyOnly {
		require.True(t, strings.HasSuffix(f, ".py"))
	}

	capped := a.ListFiles(ListOptions{MaxFiles: 5})
	require.Len(t, capped, 5)
}

func TestListFilesIsIdempotent(t *testing.T) {
	a := New(writeRepo(t, map[string]string{
		"a.py": "1\n", "b.py": "2\n", "sub/c.py": "3\n",
	}))

	first := a.ListFiles(ListOptions{})
	second := a.ListFiles(ListOptions{})
	require.Equal(t, first, second)
}

func TestReadFileTruncates(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("line\n")
	}
	a := New(writeRepo(t, map[string]string{"big.txt": sb.String()}))

	content := a.ReadFile("big.txt", 10)
	require.Contains(t, content, "... (truncated after 10 lines)")
	require.Equal(t, 10, strings.Count(content, "line\n"))
}

func TestReadFileErrorIsText(t *testing.T) {
	a := New(t.TempDir())

	content := a.ReadFile("missing.txt", 0)
	require.Contains(t, content, "Error reading file missing.txt")
}

func TestReadFileFlattensNotebook(t *testing.T) {
	notebook := `{
  "cells": [
    {"cell_type": "markdown", "source": ["# Analysis\n", "Intro text."]},
    {"cell_type": "code", "source": ["import pandas as pd\n", "pd.read_csv('x.csv')"],
     "outputs": [{"output_type": "stream", "text": ["SHOULD NOT APPEAR"]}]},
    {"cell_type": "code", "source": []}
  ],
  "metadata": {"language_info": {"name": "python"}},
  "nbformat": 4
}`
	a := New(writeRepo(t, map[string]string{"analysis.ipynb": notebook}))

	content := a.ReadFile("analysis.ipynb", 0)
	require.Contains(t, content, "# Analysis")
	require.Contains(t, content, "```python")
	require.Contains(t, content, "import pandas as pd")
	require.NotContains(t, content, "SHOULD NOT APPEAR", "execution outputs must be stripped")
}

func TestFindFilesByNameMultiPattern(t *testing.T) {
	a := New(writeRepo(t, map[string]string{
		"README.md":      "r\n",
		"LICENSE":        "l\n",
		"docs/notes.md":  "n\n",
		"src/main.py":    "m\n",
	}))

	matches := a.FindFilesByName("readme*|license*")
	require.Len(t, matches, 2)

	mdFiles := a.FindFilesByName("*.MD")
	require.Len(t, mdFiles, 2, "matching is case-insensitive")
}

func TestProjectSummary(t *testing.T) {
	a := New(writeRepo(t, map[string]string{
		"README.md":         "# hi\n",
		"requirements.txt":  "pandas\n",
		"src/app.py":        "x\n",
		"src/util.py":       "x\n",
		"tests/test_app.py": "x\n",
		"docs/guide.md":     "x\n",
	}))

	summary := a.ProjectSummary()
	require.Equal(t, 6, summary.TotalFiles)
	require.Equal(t, 3, summary.FileTypes[".py"])
	require.True(t, summary.HasTests)
	require.True(t, summary.HasDocs)
	require.Contains(t, summary.KeyFiles, "README.md")
	require.Contains(t, summary.KeyFiles, "requirements.txt")
	require.Contains(t, summary.TopLevelDirs, "src")
	require.Contains(t, summary.TopLevelDirs, "tests")
}
