// Package criteria defines the rubric data model: the criteria a repository
// is evaluated against and the results those evaluations produce.
//
// A rubric is an ordered list of criteria. Each criterion is either scored
// (a single numeric scale with described levels) or a checklist (independent
// items, each worth points). The two variants share a common contract
// (name, max score) and are dispatched on their Type tag.
package criteria

// Type discriminates the two criterion variants.
type Type string

const (
	TypeScored    Type = "scored"
	TypeChecklist Type = "checklist"
)

// Criterion is the common contract of both rubric variants.
type Criterion interface {
	// CriterionName returns the rubric item name.
	CriterionName() string

	// Type returns the variant tag used for dispatch.
	Type() Type

	// MaxScore returns the scoring ceiling: the maximum level for scored
	// criteria, the sum of item points for checklists.
	MaxScore() int

	// Guidance returns the optional free-text comment injected into prompts.
	Guidance() string
}

// ScoreLevel is one level on a scored criterion's scale.
type ScoreLevel struct {
	Points      int    `yaml:"score"`
	Description string `yaml:"description"`
}

// ScoredCriterion is a criterion evaluated on a single numeric scale.
// Levels need not be sorted; the maximum level defines the ceiling.
type ScoredCriterion struct {
	Name    string
	Levels  []ScoreLevel
	Max     int
	Comment string
}

func (c *ScoredCriterion) CriterionName() string { return c.Name }
func (c *ScoredCriterion) Type() Type            { return TypeScored }
func (c *ScoredCriterion) MaxScore() int         { return c.Max }
func (c *ScoredCriterion) Guidance() string      { return c.Comment }

// ChecklistItem is one independently verifiable item in a checklist.
type ChecklistItem struct {
	Description string `yaml:"description"`
	Points      int    `yaml:"points"`
}

// ChecklistCriterion is a criterion made of independent point-bearing items.
type ChecklistCriterion struct {
	Name    string
	Items   []ChecklistItem
	Max     int
	Comment string
}

func (c *ChecklistCriterion) CriterionName() string { return c.Name }
func (c *ChecklistCriterion) Type() Type            { return TypeChecklist }
func (c *ChecklistCriterion) MaxScore() int         { return c.Max }
func (c *ChecklistCriterion) Guidance() string      { return c.Comment }

// EvaluationResult is the outcome of evaluating one criterion.
type EvaluationResult struct {
	CriteriaName string   `json:"criteria_name"`
	CriteriaType Type     `json:"criteria_type"`
	Score        int      `json:"score"`
	MaxScore     int      `json:"max_score"`
	Reasoning    string   `json:"reasoning"`
	Evidence     []string `json:"evidence"`
}

// ProjectEvaluation aggregates all per-criterion results for one repository.
// Constructed once after every criterion has been evaluated; read-only after.
type ProjectEvaluation struct {
	ProjectURL    string             `json:"project_url"`
	ProjectPath   string             `json:"project_path"`
	TotalScore    int                `json:"total_score"`
	MaxTotalScore int                `json:"max_total_score"`
	Results       []EvaluationResult `json:"results"`
	Improvements  []string           `json:"improvements"`
}

// NewProjectEvaluation sums per-criterion results into the final aggregate.
func NewProjectEvaluation(url, path string, results []EvaluationResult, improvements []string) *ProjectEvaluation {
	total := 0
	maxTotal := 0
	for _, r := range results {
		total += r.Score
		maxTotal += r.MaxScore
	}
	return &ProjectEvaluation{
		ProjectURL:    url,
		ProjectPath:   path,
		TotalScore:    total,
		MaxTotalScore: maxTotal,
		Results:       results,
		Improvements:  improvements,
	}
}
