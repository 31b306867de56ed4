package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexeygrigorev/github-project-scorer/pkg/criteria"
)

func sampleEvaluation() *criteria.ProjectEvaluation {
	results := []criteria.EvaluationResult{
		{
			CriteriaName: "Problem description",
			CriteriaType: criteria.TypeScored,
			Score:        2,
			MaxScore:     2,
			Reasoning:    "README opens with a clear problem statement",
			Evidence:     []string{"README.md: problem section"},
		},
		{
			CriteriaName: "Reproducibility",
			CriteriaType: criteria.TypeScored,
			Score:        1,
			MaxScore:     4,
			Reasoning:    "setup steps incomplete",
		},
		{
			CriteriaName: "Containerization",
			CriteriaType: criteria.TypeChecklist,
			Score:        0,
			MaxScore:     4,
			Reasoning:    "no Dockerfile found",
		},
	}
	improvements := Improvements(results)
	return criteria.NewProjectEvaluation("https://github.com/user/repo", "/tmp/repo", results, improvements)
}

func TestMarkdownReport(t *testing.T) {
	md := Markdown(sampleEvaluation())

	assert.Contains(t, md, "# Project Evaluation Report")
	assert.Contains(t, md, "**Project:** https://github.com/user/repo")
	assert.Contains(t, md, "**Total Score:** 3/10 (30.0%)")
	assert.Contains(t, md, "| Problem description | Scored | 2 | 2 | 100.0% |")
	assert.Contains(t, md, "| Containerization | Checklist | 0 | 4 | 0.0% |")
	assert.Contains(t, md, "### Reproducibility")
	assert.Contains(t, md, "- No specific evidence provided")
	assert.Contains(t, md, "## Suggested Improvements")
}

func TestSaveForcesMarkdownExtension(t *testing.T) {
	dir := t.TempDir()

	path, err := Save(sampleEvaluation(), filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Project Evaluation Report")
}

func TestConsoleReport(t *testing.T) {
	var buf bytes.Buffer
	Console(&buf, sampleEvaluation())

	out := buf.String()
	assert.Contains(t, out, "Project Evaluation Report")
	assert.Contains(t, out, "Problem description")
	assert.Contains(t, out, "Score: 2/2 (100.0%)")
	assert.Contains(t, out, "Suggested Improvements")
}

func TestImprovements(t *testing.T) {
	results := []criteria.EvaluationResult{
		{CriteriaName: "Containerization", Score: 0, MaxScore: 4},
		{CriteriaName: "Reproducibility", Score: 1, MaxScore: 4},
		{CriteriaName: "Problem description", Score: 2, MaxScore: 2},
	}

	improvements := Improvements(results)
	require.Len(t, improvements, 2)
	assert.Contains(t, improvements[0], "Docker containerization")
	assert.Contains(t, improvements[1], "documentation completeness")
}

func TestImprovementsDeduplicates(t *testing.T) {
	results := []criteria.EvaluationResult{
		{CriteriaName: "Monitoring basics", Score: 0, MaxScore: 2},
		{CriteriaName: "Monitoring dashboard", Score: 0, MaxScore: 2},
	}

	improvements := Improvements(results)
	assert.Len(t, improvements, 1)
}

func TestImprovementsEmptyForFullScores(t *testing.T) {
	results := []criteria.EvaluationResult{
		{CriteriaName: "Problem description", Score: 2, MaxScore: 2},
	}
	assert.Empty(t, Improvements(results))
}
