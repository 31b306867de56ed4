package tool

import (
	"strconv"
	"strings"

	"github.com/alexeygrigorev/github-project-scorer/pkg/analyzer"
)

// ListFilesTool lists repository files with optional filters.
type ListFilesTool struct {
	analyzer *analyzer.Analyzer
}

func (t *ListFilesTool) Name() string {
	return "list_files"
}

func (t *ListFilesTool) Description() string {
	return "List files in the repository, honoring .gitignore and skipping dependency trees, caches, and binary files. Use extensions to narrow to source files of interest."
}

func (t *ListFilesTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"extensions": {
				Type:        "array",
				Description: "File extensions to include, with leading dot (e.g. ['.py', '.md'])",
				Items:       &PropertySchema{Type: "string"},
			},
			"exclude_patterns": {
				Type:        "array",
				Description: "Path substrings to exclude, in addition to the defaults",
				Items:       &PropertySchema{Type: "string"},
			},
			"max_files": {
				Type:        "integer",
				Description: "Maximum number of files to return",
				Default:     analyzer.DefaultMaxFiles,
			},
		},
	}
}

func (t *ListFilesTool) Execute(params map[string]any) (*Result, error) {
	files := t.analyzer.ListFiles(analyzer.ListOptions{
		Extensions:      parseStringSlice(params["extensions"]),
		ExcludePatterns: parseStringSlice(params["exclude_patterns"]),
		MaxFiles:        parseInt(params["max_files"], 0),
	})

	return &Result{
		Success: true,
		Data: map[string]any{
			"files": files,
			"count": len(files),
		},
	}, nil
}

// ReadFileTool reads a file from the repository.
type ReadFileTool struct {
	analyzer *analyzer.Analyzer
}

func (t *ReadFileTool) Name() string {
	return "read_file"
}

func (t *ReadFileTool) Description() string {
	return "Read file contents, truncated to max_lines. Jupyter notebooks are converted to markdown with execution outputs removed. Read errors come back as text in the content field."
}

func (t *ReadFileTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"file_path": {
				Type:        "string",
				Description: "Path to the file, relative to the repository root",
			},
			"max_lines": {
				Type:        "integer",
				Description: "Maximum number of lines to return",
				Default:     analyzer.DefaultMaxLines,
			},
		},
		Required: []string{"file_path"},
	}
}

func (t *ReadFileTool) Execute(params map[string]any) (*Result, error) {
	path, ok := params["file_path"].(string)
	if !ok || strings.TrimSpace(path) == "" {
		return &Result{
			Success: false,
			Error:   "file_path parameter must be a non-empty string",
		}, nil
	}

	content := t.analyzer.ReadFile(path, parseInt(params["max_lines"], 0))

	return &Result{
		Success: true,
		Data: map[string]any{
			"file_path": path,
			"content":   content,
		},
	}, nil
}

// FindFilesByNameTool matches filenames against glob patterns.
type FindFilesByNameTool struct {
	analyzer *analyzer.Analyzer
}

func (t *FindFilesByNameTool) Name() string {
	return "find_files_by_name"
}

func (t *FindFilesByNameTool) Description() string {
	return "Find files whose name matches a glob pattern. Multiple patterns can be joined with '|' (e.g. 'readme*|license*'). Matching is case-insensitive."
}

func (t *FindFilesByNameTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"pattern": {
				Type:        "string",
				Description: "Glob pattern(s) for the filename, '|'-separated",
			},
		},
		Required: []string{"pattern"},
	}
}

func (t *FindFilesByNameTool) Execute(params map[string]any) (*Result, error) {
	pattern, ok := params["pattern"].(string)
	if !ok || strings.TrimSpace(pattern) == "" {
		return &Result{
			Success: false,
			Error:   "pattern parameter must be a non-empty string",
		}, nil
	}

	matches := t.analyzer.FindFilesByName(pattern)

	return &Result{
		Success: true,
		Data: map[string]any{
			"pattern": pattern,
			"matches": matches,
			"count":   len(matches),
		},
	}, nil
}

// SearchContentTool searches file contents for regex patterns.
type SearchContentTool struct {
	analyzer *analyzer.Analyzer
}

func (t *SearchContentTool) Name() string {
	return "search_content"
}

func (t *SearchContentTool) Description() string {
	return "Search file contents with regular expressions. Each pattern has its own result budget, so a broad pattern cannot crowd out a specific one. Results group matched lines by file."
}

func (t *SearchContentTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"patterns": {
				Type:        "array",
				Description: "Regex patterns to search for",
				Items:       &PropertySchema{Type: "string"},
			},
			"extensions": {
				Type:        "array",
				Description: "File extensions to search, with leading dot",
				Items:       &PropertySchema{Type: "string"},
			},
			"case_sensitive": {
				Type:        "boolean",
				Description: "Match case exactly",
				Default:     false,
			},
			"max_results_per_pattern": {
				Type:        "integer",
				Description: "Maximum matched lines per pattern",
				Default:     analyzer.DefaultMaxResultsPerPattern,
			},
			"max_files_per_pattern": {
				Type:        "integer",
				Description: "Maximum distinct files per pattern",
				Default:     analyzer.DefaultMaxFilesPerPattern,
			},
		},
		Required: []string{"patterns"},
	}
}

func (t *SearchContentTool) Execute(params map[string]any) (*Result, error) {
	patterns := parseStringSlice(params["patterns"])
	if len(patterns) == 0 {
		return &Result{
			Success: false,
			Error:   "patterns parameter must be a non-empty array of strings",
		}, nil
	}

	results := t.analyzer.SearchContent(patterns, analyzer.SearchOptions{
		Extensions:           parseStringSlice(params["extensions"]),
		CaseSensitive:        parseBool(params["case_sensitive"], false),
		MaxResultsPerPattern: parseInt(params["max_results_per_pattern"], 0),
		MaxFilesPerPattern:   parseInt(params["max_files_per_pattern"], 0),
	})

	// A single-pattern search flattens to file -> lines; multi-pattern
	// searches keep the pattern level.
	var payload any = results
	if len(patterns) == 1 {
		if flat, ok := results[patterns[0]]; ok {
			payload = flat
		} else {
			payload = map[string][]string{}
		}
	}

	return &Result{
		Success: true,
		Data: map[string]any{
			"results": payload,
		},
	}, nil
}

// ProjectSummaryTool reports repository-level structure.
type ProjectSummaryTool struct {
	analyzer *analyzer.Analyzer
}

func (t *ProjectSummaryTool) Name() string {
	return "get_project_summary"
}

func (t *ProjectSummaryTool) Description() string {
	return "Get a high-level overview of the repository: file counts by type, key files like README and dependency manifests, top-level directories, and whether tests and docs exist. Call this first to orient yourself."
}

func (t *ProjectSummaryTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type:       "object",
		Properties: map[string]PropertySchema{},
	}
}

func (t *ProjectSummaryTool) Execute(params map[string]any) (*Result, error) {
	summary := t.analyzer.ProjectSummary()

	return &Result{
		Success: true,
		Data: map[string]any{
			"total_files":    summary.TotalFiles,
			"file_types":     summary.FileTypes,
			"key_files":      summary.KeyFiles,
			"top_level_dirs": summary.TopLevelDirs,
			"has_tests":      summary.HasTests,
			"has_docs":       summary.HasDocs,
		},
	}, nil
}

func parseBool(value any, defaultVal bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		default:
			return defaultVal
		}
	default:
		return defaultVal
	}
}

func parseInt(value any, defaultVal int) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return defaultVal
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return defaultVal
		}
		return i
	default:
		return defaultVal
	}
}

// parseStringSlice handles the shapes JSON decoding produces for array
// parameters: []any from unmarshaled tool arguments, or []string from
// direct Go callers.
func parseStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
