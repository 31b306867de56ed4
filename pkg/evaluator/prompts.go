package evaluator

import (
	"fmt"
	"strings"

	"github.com/alexeygrigorev/github-project-scorer/pkg/criteria"
	"github.com/alexeygrigorev/github-project-scorer/pkg/tool"
)

const systemInstructions = `You are an expert software engineer and technical evaluator specializing in assessing repositories against specific quality criteria.

Your mission is to thoroughly evaluate a repository and provide accurate scoring based on the provided criteria.

## Evaluation Strategy

1. Start smart: for documentation-focused criteria, start with README and documentation files
2. Be proportional: match investigation depth to criteria complexity
3. Examine code: for technical criteria, look at source files to understand implementation quality
4. Check configuration: for setup and deployment criteria, review build files and configurations
5. Look for evidence: find specific examples that support your decision

## Scoring Guidelines

- Be evidence-based: your reasoning must cite specific files, code snippets, or observations
- Be fair: consider the project's scope and purpose when evaluating
- Be specific: provide concrete examples from the repository to justify your decision

## Investigation Process

1. Understand what you're looking for based on the criteria
2. Plan which files to check and what to search for
3. Use tools systematically to gather evidence
4. Cross-reference findings across multiple files when necessary
5. When your investigation is complete, call the submit_result tool with your assessment

Do not over-investigate simple criteria that can be answered quickly, and never submit a result before gathering evidence.`

// scoredPayload is the terminal structured output for scored criteria.
type scoredPayload struct {
	Score     int      `json:"score"`
	Reasoning string   `json:"reasoning"`
	Evidence  []string `json:"evidence"`
}

// checklistPayload is the terminal structured output for checklist criteria.
type checklistPayload struct {
	CompletedItems []int    `json:"completed_items"`
	Reasoning      string   `json:"reasoning"`
	Evidence       []string `json:"evidence"`
}

// buildPrompt renders the criterion-type-specific user prompt.
func buildPrompt(c criteria.Criterion, repoPath string) string {
	switch c := c.(type) {
	case *criteria.ScoredCriterion:
		return buildScoredPrompt(c, repoPath)
	case *criteria.ChecklistCriterion:
		return buildChecklistPrompt(c, repoPath)
	default:
		return ""
	}
}

func buildScoredPrompt(c *criteria.ScoredCriterion, repoPath string) string {
	var levels strings.Builder
	for _, level := range c.Levels {
		fmt.Fprintf(&levels, "  %d points: %s\n", level.Points, level.Description)
	}

	prompt := fmt.Sprintf(`Evaluate this repository against the following criteria:

## Criteria: %s

### Scoring Levels:
%s
### Repository Information:
- Repository path: %s

### Your Task:
1. Investigate appropriately using the available file analysis tools
2. Gather concrete evidence from files, code, documentation, and configuration
3. Assign a score from 0 to %d based on the scoring levels
4. Provide detailed reasoning explaining your score with specific examples
5. List evidence with file names and relevant content snippets

When done, call submit_result with your score, reasoning, and evidence.`,
		c.Name, levels.String(), repoPath, c.MaxScore())

	if c.Comment != "" {
		prompt += "\n\nIMPORTANT: " + c.Comment
	}
	return prompt
}

func buildChecklistPrompt(c *criteria.ChecklistCriterion, repoPath string) string {
	var items strings.Builder
	for i, item := range c.Items {
		fmt.Fprintf(&items, "  Item %d: %s (%d points)\n", i, item.Description, item.Points)
	}

	prompt := fmt.Sprintf(`Evaluate this repository against the following checklist criteria:

## Criteria: %s

### Checklist Items:
%s
### Repository Information:
- Repository path: %s

### Your Task:
1. Systematically check each item in the checklist using file analysis tools
2. Gather verification evidence for each item you mark as completed
3. Return the indices (0-based) of items that are completed/present
4. Provide reasoning explaining which items are completed and why
5. Document evidence with specific file names and content that proves completion

When done, call submit_result with the completed item indices, reasoning, and evidence.`,
		c.Name, items.String(), repoPath)

	if c.Comment != "" {
		prompt += "\n\nIMPORTANT: " + c.Comment
	}
	return prompt
}

// resultToolDefinition builds the reserved submit_result function definition
// whose schema matches the criterion type's terminal payload.
func resultToolDefinition(criteriaType criteria.Type) map[string]any {
	schema := tool.ParameterSchema{
		Type: "object",
		Properties: map[string]tool.PropertySchema{
			"reasoning": {
				Type:        "string",
				Description: "Detailed reasoning behind the assessment, citing specific findings",
			},
			"evidence": {
				Type:        "array",
				Description: "File names and content snippets supporting the assessment",
				Items:       &tool.PropertySchema{Type: "string"},
			},
		},
	}

	switch criteriaType {
	case criteria.TypeChecklist:
		schema.Properties["completed_items"] = tool.PropertySchema{
			Type:        "array",
			Description: "Zero-based indices of checklist items that are completed",
			Items:       &tool.PropertySchema{Type: "integer"},
		}
		schema.Required = []string{"completed_items", "reasoning", "evidence"}
	default:
		schema.Properties["score"] = tool.PropertySchema{
			Type:        "integer",
			Description: "The assigned score",
		}
		schema.Required = []string{"score", "reasoning", "evidence"}
	}

	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        resultToolName,
			"description": "Submit the final structured assessment for this criterion. Call exactly once, after the investigation is complete.",
			"parameters":  schema,
		},
	}
}
