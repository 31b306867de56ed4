package evaluator

import (
	"context"
	"fmt"

	"github.com/alexeygrigorev/github-project-scorer/pkg/criteria"
	"github.com/alexeygrigorev/github-project-scorer/pkg/telemetry"
)

// EvaluateAll runs every criterion sequentially. The tool surface and ledger
// are shared across sessions, so criteria are never evaluated concurrently.
// A failed criterion contributes a zero-score result carrying the failure
// reason; it never aborts the batch.
func (e *Evaluator) EvaluateAll(ctx context.Context, list []criteria.Criterion) ([]criteria.EvaluationResult, *Progress, error) {
	progress := &Progress{}
	progress.Start(len(list))

	e.publish(telemetry.EventEvaluationStarted, "", map[string]any{"criteria": len(list)})

	results := make([]criteria.EvaluationResult, 0, len(list))
	for _, c := range list {
		if err := ctx.Err(); err != nil {
			return results, progress, err
		}

		result, err := e.EvaluateCriterion(ctx, c)
		if err != nil {
			result = criteria.EvaluationResult{
				CriteriaName: c.CriterionName(),
				CriteriaType: c.Type(),
				Score:        0,
				MaxScore:     c.MaxScore(),
				Reasoning:    fmt.Sprintf("Evaluation failed: %v", err),
			}
			progress.Update(c.CriterionName(), false)
		} else {
			progress.Update(c.CriterionName(), true)
		}
		results = append(results, result)
	}

	e.publish(telemetry.EventEvaluationCompleted, "", map[string]any{
		"criteria": len(list),
		"failed":   progress.Failed(),
	})

	return results, progress, nil
}
