package criteria

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type rubricFile struct {
	Criteria []criterionEntry `yaml:"criteria"`
}

type criterionEntry struct {
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Comment     string          `yaml:"comment"`
	ScoreLevels []ScoreLevel    `yaml:"score_levels"`
	Items       []ChecklistItem `yaml:"items"`
}

// LoadFromFile reads a rubric YAML file and returns its criteria in order.
// A malformed rubric is a hard error: evaluation cost is undefined without
// a valid rubric, so nothing is evaluated on a partial load.
func LoadFromFile(path string) ([]Criterion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read criteria file: %w", err)
	}
	return Parse(data)
}

// Parse decodes rubric YAML. Entries may carry an explicit type tag
// ("scored" or "checklist"); entries without one fall back to inference from
// which field is present, for compatibility with older rubric files.
func Parse(data []byte) ([]Criterion, error) {
	var file rubricFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse criteria YAML: %w", err)
	}
	if file.Criteria == nil {
		return nil, fmt.Errorf("criteria file has no top-level 'criteria' key")
	}

	out := make([]Criterion, 0, len(file.Criteria))
	for i, entry := range file.Criteria {
		c, err := buildCriterion(entry)
		if err != nil {
			return nil, fmt.Errorf("criteria[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func buildCriterion(entry criterionEntry) (Criterion, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, fmt.Errorf("criterion has no name")
	}

	switch strings.ToLower(entry.Type) {
	case string(TypeScored), "single":
		// "single" is the rubric-file spelling for a scored criterion.
		return buildScored(name, entry)
	case string(TypeChecklist):
		return buildChecklist(name, entry)
	case "":
		// Backward compatibility: infer the variant from the fields present.
		if len(entry.ScoreLevels) > 0 {
			return buildScored(name, entry)
		}
		if len(entry.Items) > 0 {
			return buildChecklist(name, entry)
		}
		return nil, fmt.Errorf("criterion %q: expected type 'scored' with 'score_levels' or type 'checklist' with 'items'", name)
	default:
		return nil, fmt.Errorf("criterion %q: unknown type %q", name, entry.Type)
	}
}

func buildScored(name string, entry criterionEntry) (Criterion, error) {
	if len(entry.ScoreLevels) == 0 {
		return nil, fmt.Errorf("scored criterion %q missing 'score_levels'", name)
	}
	max := entry.ScoreLevels[0].Points
	for _, level := range entry.ScoreLevels[1:] {
		if level.Points > max {
			max = level.Points
		}
	}
	return &ScoredCriterion{
		Name:    name,
		Levels:  entry.ScoreLevels,
		Max:     max,
		Comment: entry.Comment,
	}, nil
}

func buildChecklist(name string, entry criterionEntry) (Criterion, error) {
	if len(entry.Items) == 0 {
		return nil, fmt.Errorf("checklist criterion %q missing 'items'", name)
	}
	max := 0
	for _, item := range entry.Items {
		max += item.Points
	}
	return &ChecklistCriterion{
		Name:    name,
		Items:   entry.Items,
		Max:     max,
		Comment: entry.Comment,
	}, nil
}
