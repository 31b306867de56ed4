package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Jupyter notebooks are JSON documents whose cells carry both source and
// execution outputs. Only the source survives flattening: outputs are stale
// run state and would bloat agent context for no evaluative value.

type notebookDoc struct {
	Cells    []notebookCell `json:"cells"`
	Metadata struct {
		LanguageInfo struct {
			Name string `json:"name"`
		} `json:"language_info"`
	} `json:"metadata"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// notebookToMarkdown flattens a raw .ipynb document into markdown-like text.
// Markdown cells pass through; code cells become fenced blocks tagged with
// the notebook language; all outputs are dropped.
func notebookToMarkdown(raw []byte) (string, error) {
	var doc notebookDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("invalid notebook JSON: %w", err)
	}

	language := doc.Metadata.LanguageInfo.Name
	if language == "" {
		language = "python"
	}

	var sections []string
	for _, cell := range doc.Cells {
		source := decodeCellSource(cell.Source)
		if strings.TrimSpace(source) == "" {
			continue
		}

		switch cell.CellType {
		case "markdown", "raw":
			sections = append(sections, source)
		case "code":
			sections = append(sections, "```"+language+"\n"+source+"\n```")
		}
	}

	return strings.Join(sections, "\n\n"), nil
}

// decodeCellSource handles both notebook source encodings: a single string
// or a list of line strings.
func decodeCellSource(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimRight(single, "\n")
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.TrimRight(strings.Join(lines, ""), "\n")
	}

	return ""
}
