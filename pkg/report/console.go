package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexeygrigorev/github-project-scorer/pkg/criteria"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 2)

	criterionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// scoreStyle picks a color for a score ratio: green at 80%+, yellow at 50%+,
// red below.
func scoreStyle(score, max int) lipgloss.Style {
	pct := percentage(score, max)
	switch {
	case pct >= 80:
		return goodStyle
	case pct >= 50:
		return okStyle
	default:
		return badStyle
	}
}

// Console writes a styled evaluation report to w.
func Console(w io.Writer, evaluation *criteria.ProjectEvaluation) {
	header := fmt.Sprintf("Project Evaluation Report\nProject: %s\nTotal Score: %d/%d (%.1f%%)",
		evaluation.ProjectURL, evaluation.TotalScore, evaluation.MaxTotalScore,
		percentage(evaluation.TotalScore, evaluation.MaxTotalScore))
	fmt.Fprintln(w, headerStyle.Render(header))
	fmt.Fprintln(w)

	for _, result := range evaluation.Results {
		style := scoreStyle(result.Score, result.MaxScore)

		fmt.Fprintf(w, "%s %s\n",
			criterionStyle.Render(result.CriteriaName),
			dimStyle.Render("("+string(result.CriteriaType)+")"))
		fmt.Fprintf(w, "  %s\n", style.Render(fmt.Sprintf("Score: %d/%d (%.1f%%)",
			result.Score, result.MaxScore, percentage(result.Score, result.MaxScore))))

		if result.Reasoning != "" {
			fmt.Fprintf(w, "  %s %s\n", sectionStyle.Render("Reasoning:"), indentBlock(result.Reasoning))
		}
		for _, evidence := range result.Evidence {
			fmt.Fprintf(w, "    - %s\n", evidence)
		}
		fmt.Fprintln(w)
	}

	if len(evaluation.Improvements) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Suggested Improvements"))
		for i, improvement := range evaluation.Improvements {
			fmt.Fprintf(w, "  %d. %s\n", i+1, improvement)
		}
	}
}

// Preview renders the markdown report for terminal display.
func Preview(evaluation *criteria.ProjectEvaluation) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(Markdown(evaluation))
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

// indentBlock keeps multi-line reasoning aligned under its label.
func indentBlock(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n    ")
}
