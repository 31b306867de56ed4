package tool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexeygrigorev/github-project-scorer/pkg/analyzer"
)

func testRegistry(t *testing.T, files map[string]string) *Registry {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return NewRegistry(analyzer.New(root))
}

func TestRegistryHasAllTools(t *testing.T) {
	r := testRegistry(t, nil)

	require.Equal(t, 5, r.Count())
	for _, name := range []string{
		"list_files", "read_file", "find_files_by_name",
		"search_content", "get_project_summary",
	} {
		_, ok := r.Get(name)
		require.True(t, ok, "missing tool %s", name)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r := testRegistry(t, nil)

	_, err := r.Execute("delete_everything", nil)
	require.Error(t, err)
}

func TestListFilesTool(t *testing.T) {
	r := testRegistry(t, map[string]string{
		"main.py":  "x\n",
		"notes.md": "x\n",
	})

	// extensions arrive as []any when decoded from tool call arguments
	res, err := r.Execute("list_files", map[string]any{
		"extensions": []any{".py"},
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 1, res.Data["count"])
	require.Equal(t, []string{"main.py"}, res.Data["files"])
}

func TestReadFileTool(t *testing.T) {
	r := testRegistry(t, map[string]string{"app.py": "import os\nprint('hi')\n"})

	res, err := r.Execute("read_file", map[string]any{"file_path": "app.py"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Contains(t, res.Data["content"], "import os")

	// missing files still succeed; the error is in the content text
	res, err = r.Execute("read_file", map[string]any{"file_path": "nope.py"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Contains(t, res.Data["content"], "Error reading file")

	// a missing path parameter is a tool-level failure
	res, err = r.Execute("read_file", map[string]any{})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.NotEmpty(t, res.Error)
}

func TestFindFilesByNameTool(t *testing.T) {
	r := testRegistry(t, map[string]string{
		"README.md": "x\n",
		"main.py":   "x\n",
	})

	res, err := r.Execute("find_files_by_name", map[string]any{"pattern": "readme*"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, []string{"README.md"}, res.Data["matches"])
}

func TestSearchContentToolFlattensSinglePattern(t *testing.T) {
	r := testRegistry(t, map[string]string{
		"train.py": "model.fit(X, y)\n",
	})

	res, err := r.Execute("search_content", map[string]any{
		"patterns": []any{`model\.fit`},
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	flat, ok := res.Data["results"].(map[string][]string)
	require.True(t, ok, "single pattern results flatten to file -> lines")
	require.Len(t, flat["train.py"], 1)
}

func TestSearchContentToolMultiPattern(t *testing.T) {
	r := testRegistry(t, map[string]string{
		"x.py": "import flask\nimport pandas\n",
	})

	res, err := r.Execute("search_content", map[string]any{
		"patterns": []any{"flask", "pandas"},
	})
	require.NoError(t, err)

	nested, ok := res.Data["results"].(analyzer.SearchResults)
	require.True(t, ok)
	require.Len(t, nested["flask"]["x.py"], 1)
	require.Len(t, nested["pandas"]["x.py"], 1)
}

func TestSearchContentToolRequiresPatterns(t *testing.T) {
	r := testRegistry(t, nil)

	res, err := r.Execute("search_content", map[string]any{})
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestProjectSummaryTool(t *testing.T) {
	r := testRegistry(t, map[string]string{
		"README.md":         "x\n",
		"tests/test_app.py": "x\n",
	})

	res, err := r.Execute("get_project_summary", nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 2, res.Data["total_files"])
	require.Equal(t, true, res.Data["has_tests"])
}

func TestToOpenAIFunctions(t *testing.T) {
	r := testRegistry(t, nil)

	fns := r.ToOpenAIFunctions()
	require.Len(t, fns, 5)
	for _, fn := range fns {
		require.Equal(t, "function", fn["type"])
		inner, ok := fn["function"].(map[string]any)
		require.True(t, ok)
		require.NotEmpty(t, inner["name"])
		require.NotEmpty(t, inner["description"])
	}
}
