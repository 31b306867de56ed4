package criteria

import (
	"testing"
)

func TestParseScored(t *testing.T) {
	data := []byte(`
criteria:
  - name: "Problem description"
    type: scored
    score_levels:
      - score: 0
        description: "Not described"
      - score: 2
        description: "Described clearly"
      - score: 1
        description: "Partially described"
`)
	list, err := Parse(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 criterion, got %d", len(list))
	}

	c, ok := list[0].(*ScoredCriterion)
	if !ok {
		t.Fatalf("expected *ScoredCriterion, got %T", list[0])
	}
	if c.Type() != TypeScored {
		t.Errorf("expected type scored, got %s", c.Type())
	}
	// Levels are unsorted; the max level defines the ceiling.
	if c.MaxScore() != 2 {
		t.Errorf("expected max score 2, got %d", c.MaxScore())
	}
	if len(c.Levels) != 3 {
		t.Errorf("expected 3 levels, got %d", len(c.Levels))
	}
}

func TestParseChecklist(t *testing.T) {
	data := []byte(`
criteria:
  - name: "Reproducibility"
    type: checklist
    comment: "Partial credit allowed"
    items:
      - description: "Dependencies pinned"
        points: 1
      - description: "Setup documented"
        points: 2
      - description: "Data accessible"
        points: 3
`)
	list, err := Parse(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	c, ok := list[0].(*ChecklistCriterion)
	if !ok {
		t.Fatalf("expected *ChecklistCriterion, got %T", list[0])
	}
	if c.MaxScore() != 6 {
		t.Errorf("expected max score 6 (sum of points), got %d", c.MaxScore())
	}
	if c.Guidance() != "Partial credit allowed" {
		t.Errorf("unexpected comment: %q", c.Guidance())
	}
}

func TestParseSingleAlias(t *testing.T) {
	data := []byte(`
criteria:
  - name: "Interface"
    type: single
    score_levels:
      - score: 0
        description: "none"
      - score: 3
        description: "web app"
`)
	list, err := Parse(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if list[0].Type() != TypeScored {
		t.Errorf("expected 'single' to map to scored, got %s", list[0].Type())
	}
	if list[0].MaxScore() != 3 {
		t.Errorf("expected max score 3, got %d", list[0].MaxScore())
	}
}

func TestParseInfersTypeFromFields(t *testing.T) {
	data := []byte(`
criteria:
  - name: "Legacy scored"
    score_levels:
      - score: 0
        description: "none"
      - score: 5
        description: "full"
  - name: "Legacy checklist"
    items:
      - description: "item a"
        points: 1
`)
	list, err := Parse(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if list[0].Type() != TypeScored {
		t.Errorf("expected scored inference, got %s", list[0].Type())
	}
	if list[1].Type() != TypeChecklist {
		t.Errorf("expected checklist inference, got %s", list[1].Type())
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing criteria key", `other: true`},
		{"empty name", "criteria:\n  - type: scored\n    score_levels:\n      - score: 1\n        description: x"},
		{"scored without levels", "criteria:\n  - name: broken\n    type: scored"},
		{"checklist without items", "criteria:\n  - name: broken\n    type: checklist"},
		{"unknown type", "criteria:\n  - name: broken\n    type: fancy"},
		{"no variant fields", "criteria:\n  - name: broken"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestNewProjectEvaluation(t *testing.T) {
	results := []EvaluationResult{
		{CriteriaName: "a", Score: 4, MaxScore: 6},
		{CriteriaName: "b", Score: 0, MaxScore: 10},
		{CriteriaName: "c", Score: 5, MaxScore: 5},
	}

	eval := NewProjectEvaluation("https://github.com/u/r", "/tmp/r", results, []string{"improve b"})
	if eval.TotalScore != 9 {
		t.Errorf("expected total 9, got %d", eval.TotalScore)
	}
	if eval.MaxTotalScore != 21 {
		t.Errorf("expected max total 21, got %d", eval.MaxTotalScore)
	}
	if len(eval.Results) != 3 {
		t.Errorf("expected 3 results, got %d", len(eval.Results))
	}
}
