// Package report renders project evaluations for humans: styled console
// output, markdown files, and improvement suggestions.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexeygrigorev/github-project-scorer/pkg/criteria"
)

// Markdown renders the evaluation as a markdown report.
func Markdown(evaluation *criteria.ProjectEvaluation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Project Evaluation Report\n\n")
	fmt.Fprintf(&sb, "**Project:** %s  \n", evaluation.ProjectURL)
	fmt.Fprintf(&sb, "**Generated:** %s  \n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Total Score:** %d/%d (%.1f%%)\n\n",
		evaluation.TotalScore, evaluation.MaxTotalScore,
		percentage(evaluation.TotalScore, evaluation.MaxTotalScore))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Criteria | Type | Score | Max | Percentage |\n")
	sb.WriteString("|----------|------|-------|-----|------------|\n")
	for _, result := range evaluation.Results {
		fmt.Fprintf(&sb, "| %s | %s | %d | %d | %.1f%% |\n",
			result.CriteriaName, titleCase(string(result.CriteriaType)),
			result.Score, result.MaxScore,
			percentage(result.Score, result.MaxScore))
	}

	sb.WriteString("\n## Detailed Results\n\n")
	for _, result := range evaluation.Results {
		fmt.Fprintf(&sb, "### %s\n\n", result.CriteriaName)
		fmt.Fprintf(&sb, "**Type:** %s  \n", titleCase(string(result.CriteriaType)))
		fmt.Fprintf(&sb, "**Score:** %d/%d (%.1f%%)\n\n",
			result.Score, result.MaxScore, percentage(result.Score, result.MaxScore))
		fmt.Fprintf(&sb, "**Reasoning:**\n%s\n\n", result.Reasoning)

		sb.WriteString("**Evidence:**\n")
		if len(result.Evidence) == 0 {
			sb.WriteString("- No specific evidence provided\n")
		}
		for _, evidence := range result.Evidence {
			fmt.Fprintf(&sb, "- %s\n", evidence)
		}
		sb.WriteString("\n")
	}

	if len(evaluation.Improvements) > 0 {
		sb.WriteString("## Suggested Improvements\n\n")
		for i, improvement := range evaluation.Improvements {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, improvement)
		}
	}

	return sb.String()
}

// Save writes the markdown report to outputPath, forcing a .md extension.
func Save(evaluation *criteria.ProjectEvaluation, outputPath string) (string, error) {
	if ext := filepath.Ext(outputPath); ext != ".md" {
		outputPath = strings.TrimSuffix(outputPath, ext) + ".md"
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(Markdown(evaluation)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return outputPath, nil
}

func percentage(score, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(score) / float64(max) * 100
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
