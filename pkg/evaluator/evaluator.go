// Package evaluator runs agent sessions that assess a repository against
// rubric criteria and aggregates their results.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/alexeygrigorev/github-project-scorer/pkg/criteria"
	"github.com/alexeygrigorev/github-project-scorer/pkg/logging"
	"github.com/alexeygrigorev/github-project-scorer/pkg/model"
	"github.com/alexeygrigorev/github-project-scorer/pkg/telemetry"
	"github.com/alexeygrigorev/github-project-scorer/pkg/tool"
	"github.com/alexeygrigorev/github-project-scorer/pkg/usage"
)

// Evaluator orchestrates one agent session per criterion over a fixed tool
// surface, recording usage as it goes.
type Evaluator struct {
	client   ModelClient
	modelID  string
	registry *tool.Registry
	ledger   *usage.Ledger
	repoPath string

	runID  string
	logger *logging.Logger
	hub    *telemetry.Hub

	// criterionTimeout bounds a single criterion's session when positive.
	// Off by default; a timed-out criterion fails alone, the batch continues.
	criterionTimeout time.Duration
	maxSteps         int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger attaches a structured logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// WithTelemetry attaches a progress event hub.
func WithTelemetry(hub *telemetry.Hub) Option {
	return func(e *Evaluator) { e.hub = hub }
}

// WithCriterionTimeout bounds each criterion's agent session.
func WithCriterionTimeout(timeout time.Duration) Option {
	return func(e *Evaluator) { e.criterionTimeout = timeout }
}

// WithMaxSteps overrides the per-session model exchange bound.
func WithMaxSteps(n int) Option {
	return func(e *Evaluator) { e.maxSteps = n }
}

// WithRunID sets the run identifier, so log files and telemetry share it.
func WithRunID(runID string) Option {
	return func(e *Evaluator) {
		if runID != "" {
			e.runID = runID
		}
	}
}

// New creates an evaluator for one repository.
func New(client ModelClient, modelID string, registry *tool.Registry, ledger *usage.Ledger, repoPath string, opts ...Option) *Evaluator {
	e := &Evaluator{
		client:   client,
		modelID:  modelID,
		registry: registry,
		ledger:   ledger,
		repoPath: repoPath,
		runID:    ulid.Make().String(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunID returns the identifier of this evaluation run.
func (e *Evaluator) RunID() string { return e.runID }

// EvaluateCriterion runs one agent session for the criterion and returns its
// result. An error means the session never produced a terminal result; the
// caller decides what that means for the batch.
func (e *Evaluator) EvaluateCriterion(ctx context.Context, c criteria.Criterion) (criteria.EvaluationResult, error) {
	if e.criterionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.criterionTimeout)
		defer cancel()
	}

	e.publish(telemetry.EventCriterionStarted, c.CriterionName(), nil)
	e.logInfo(logging.CategoryEvaluation, "criterion.started", c.CriterionName(), nil)

	tools := append(e.registry.ToOpenAIFunctions(), resultToolDefinition(c.Type()))
	session := NewSession(e.client, e.modelID, systemInstructions, buildPrompt(c, e.repoPath), tools)
	if e.maxSteps > 0 {
		session.SetMaxSteps(e.maxSteps)
	}

	payload, err := e.runSession(ctx, session, c.CriterionName())

	// Usage is recorded whether the session succeeded or not: tokens were
	// spent either way.
	u := session.Usage()
	e.ledger.AddUsage(e.modelID, u.PromptTokens, u.CompletionTokens)
	e.publish(telemetry.EventUsageUpdated, c.CriterionName(), map[string]any{
		"input_tokens":  u.PromptTokens,
		"output_tokens": u.CompletionTokens,
	})
	e.logInfo(logging.CategoryCost, "usage.recorded", c.CriterionName(), map[string]any{
		"model":         e.modelID,
		"input_tokens":  u.PromptTokens,
		"output_tokens": u.CompletionTokens,
	})

	if err != nil {
		recordCriterionFailed()
		e.publish(telemetry.EventCriterionFailed, c.CriterionName(), map[string]any{"error": err.Error()})
		e.logError(logging.CategoryEvaluation, "criterion.failed", c.CriterionName(), map[string]any{"error": err.Error()})
		return criteria.EvaluationResult{}, err
	}

	result, err := e.scoreFromPayload(c, payload)
	if err != nil {
		recordCriterionFailed()
		e.publish(telemetry.EventCriterionFailed, c.CriterionName(), map[string]any{"error": err.Error()})
		e.logError(logging.CategoryEvaluation, "criterion.failed", c.CriterionName(), map[string]any{"error": err.Error()})
		return criteria.EvaluationResult{}, err
	}

	recordCriterionEvaluated()
	e.publish(telemetry.EventCriterionCompleted, c.CriterionName(), map[string]any{
		"score":     result.Score,
		"max_score": result.MaxScore,
	})
	e.logInfo(logging.CategoryEvaluation, "criterion.completed", c.CriterionName(), map[string]any{
		"score":     result.Score,
		"max_score": result.MaxScore,
	})
	return result, nil
}

// runSession drives the agent loop: advance the session, dispatch requested
// tools, and stop at the terminal payload.
func (e *Evaluator) runSession(ctx context.Context, session *Session, criterionName string) (json.RawMessage, error) {
	for !session.Done() {
		events, err := session.Step(ctx)
		if err != nil {
			return nil, err
		}

		for _, event := range events {
			switch event.Kind {
			case EventToolCall:
				e.dispatchTool(session, event.Call, criterionName)
			case EventPreFinal:
				// terminal payload follows; nothing to dispatch
			case EventFinal:
				return event.Payload, nil
			}
		}
	}
	return nil, fmt.Errorf("session ended without a result")
}

func (e *Evaluator) dispatchTool(session *Session, call model.ToolCall, criterionName string) {
	recordToolCall()
	e.publish(telemetry.EventToolStarted, criterionName, map[string]any{"tool": call.Function.Name})

	var params map[string]any
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &params); err != nil {
			params = nil
		}
	}

	result, err := e.registry.Execute(call.Function.Name, params)
	if err != nil {
		// Unknown tool or dispatch failure: tell the model instead of
		// killing the session, it may recover with a different call.
		result = &tool.Result{Success: false, Error: err.Error()}
	}

	content, err := tool.ToJSON(result)
	if err != nil {
		content = fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())
	}
	session.ProvideToolResult(call.ID, call.Function.Name, content)

	eventType := telemetry.EventToolCompleted
	if !result.Success {
		eventType = telemetry.EventToolFailed
	}
	e.publish(eventType, criterionName, map[string]any{"tool": call.Function.Name})
	e.logDebug(logging.CategoryTool, "tool.executed", criterionName, map[string]any{
		"tool":    call.Function.Name,
		"success": result.Success,
	})
}

// scoreFromPayload derives the integer score from the terminal payload.
func (e *Evaluator) scoreFromPayload(c criteria.Criterion, payload json.RawMessage) (criteria.EvaluationResult, error) {
	switch c := c.(type) {
	case *criteria.ScoredCriterion:
		var out scoredPayload
		if err := json.Unmarshal(payload, &out); err != nil {
			return criteria.EvaluationResult{}, fmt.Errorf("failed to decode scored result: %w", err)
		}
		// The score passes through as the agent assigned it, unclamped.
		return criteria.EvaluationResult{
			CriteriaName: c.Name,
			CriteriaType: criteria.TypeScored,
			Score:        out.Score,
			MaxScore:     c.MaxScore(),
			Reasoning:    out.Reasoning,
			Evidence:     out.Evidence,
		}, nil

	case *criteria.ChecklistCriterion:
		var out checklistPayload
		if err := json.Unmarshal(payload, &out); err != nil {
			return criteria.EvaluationResult{}, fmt.Errorf("failed to decode checklist result: %w", err)
		}

		score := 0
		skipped := 0
		for _, idx := range out.CompletedItems {
			if idx < 0 || idx >= len(c.Items) {
				skipped++
				continue
			}
			score += c.Items[idx].Points
		}
		if skipped > 0 {
			recordSkippedIndices(skipped)
			e.logWarn(logging.CategoryEvaluation, "checklist.indices_skipped", c.Name, map[string]any{
				"skipped":         skipped,
				"returned":        len(out.CompletedItems),
				"checklist_items": len(c.Items),
			})
		}

		return criteria.EvaluationResult{
			CriteriaName: c.Name,
			CriteriaType: criteria.TypeChecklist,
			Score:        score,
			MaxScore:     c.MaxScore(),
			Reasoning:    out.Reasoning,
			Evidence:     out.Evidence,
		}, nil

	default:
		return criteria.EvaluationResult{}, fmt.Errorf("unknown criteria type: %T", c)
	}
}

func (e *Evaluator) publish(eventType telemetry.EventType, criterion string, data map[string]any) {
	if e.hub == nil {
		return
	}
	e.hub.Publish(telemetry.Event{
		Type:      eventType,
		RunID:     e.runID,
		Criterion: criterion,
		Data:      data,
	})
}

func (e *Evaluator) logInfo(category logging.Category, eventType, criterion string, details map[string]any) {
	if e.logger == nil {
		return
	}
	e.logger.Log(logging.Event{Level: logging.LevelInfo, Category: category, EventType: eventType, Criterion: criterion, Details: details})
}

func (e *Evaluator) logWarn(category logging.Category, eventType, criterion string, details map[string]any) {
	if e.logger == nil {
		return
	}
	e.logger.Log(logging.Event{Level: logging.LevelWarn, Category: category, EventType: eventType, Criterion: criterion, Details: details})
}

func (e *Evaluator) logError(category logging.Category, eventType, criterion string, details map[string]any) {
	if e.logger == nil {
		return
	}
	e.logger.Log(logging.Event{Level: logging.LevelError, Category: category, EventType: eventType, Criterion: criterion, Details: details})
}

func (e *Evaluator) logDebug(category logging.Category, eventType, criterion string, details map[string]any) {
	if e.logger == nil {
		return
	}
	e.logger.Log(logging.Event{Level: logging.LevelDebug, Category: category, EventType: eventType, Criterion: criterion, Details: details})
}
