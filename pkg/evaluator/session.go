package evaluator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexeygrigorev/github-project-scorer/pkg/model"
)

// EventKind identifies what a session step produced.
type EventKind string

const (
	// EventToolCall asks the driving loop to execute a tool and feed the
	// result back via ProvideToolResult.
	EventToolCall EventKind = "tool_call"

	// EventPreFinal signals that the structured result is about to be
	// produced; no tool dispatch happens for it.
	EventPreFinal EventKind = "pre_final"

	// EventFinal carries the structured result payload and terminates the
	// session.
	EventFinal EventKind = "final"
)

// Event is one observation from advancing a session.
type Event struct {
	Kind    EventKind
	Call    model.ToolCall  // set for EventToolCall
	Payload json.RawMessage // set for EventFinal
}

// DefaultMaxSteps bounds how many model exchanges one session may take.
const DefaultMaxSteps = 30

// resultToolName is the reserved tool the model calls to submit its
// structured result. Calling it is the pre-final signal; decoding its
// arguments is the terminal event.
const resultToolName = "submit_result"

// Session is one agent conversation evaluating one criterion. The driving
// loop advances it with Step, executes any requested tools, and feeds results
// back; the session itself never dispatches tools.
type Session struct {
	client      ModelClient
	modelID     string
	temperature float64

	messages []model.Message
	tools    []map[string]any

	usage    model.Usage
	steps    int
	maxSteps int
	done     bool
	nudged   bool
}

// NewSession builds a session over the given prompts and tool definitions.
func NewSession(client ModelClient, modelID, systemPrompt, userPrompt string, tools []map[string]any) *Session {
	return &Session{
		client:      client,
		modelID:     modelID,
		temperature: 0,
		messages: []model.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		tools:    tools,
		maxSteps: DefaultMaxSteps,
	}
}

// SetMaxSteps overrides the step bound; values <= 0 keep the default.
func (s *Session) SetMaxSteps(n int) {
	if n > 0 {
		s.maxSteps = n
	}
}

// Usage returns the tokens accumulated across all exchanges so far.
func (s *Session) Usage() model.Usage {
	return s.usage
}

// Done reports whether the session reached its terminal event.
func (s *Session) Done() bool {
	return s.done
}

// ProvideToolResult feeds a tool execution result back into the conversation.
func (s *Session) ProvideToolResult(callID, toolName, content string) {
	s.messages = append(s.messages, model.Message{
		Role:       "tool",
		Content:    content,
		ToolCallID: callID,
		Name:       toolName,
	})
}

// Step advances the session one model exchange and returns the events it
// produced. A terminal step yields EventPreFinal followed by EventFinal.
// A session that exhausts its step budget, or whose model stops responding
// without ever submitting a result, errors out; the caller maps that to a
// failed criterion, never to a batch abort.
func (s *Session) Step(ctx context.Context) ([]Event, error) {
	if s.done {
		return nil, fmt.Errorf("session already terminated")
	}
	if s.steps >= s.maxSteps {
		return nil, fmt.Errorf("session exceeded %d steps without submitting a result", s.maxSteps)
	}
	s.steps++

	response, err := s.client.ChatCompletion(ctx, model.ChatRequest{
		Model:       s.modelID,
		Messages:    s.messages,
		Temperature: s.temperature,
		Tools:       s.tools,
		ToolChoice:  "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	s.recordUsage(response)

	message := response.Choices[0].Message
	message.Role = "assistant"
	s.messages = append(s.messages, message)

	if len(message.ToolCalls) == 0 {
		// The model answered in prose. Nudge it once toward the result
		// tool; a second prose answer ends the session without a result.
		if s.nudged {
			return nil, fmt.Errorf("session ended without submitting a result")
		}
		s.nudged = true
		s.messages = append(s.messages, model.Message{
			Role:    "user",
			Content: "Submit your final assessment by calling the " + resultToolName + " tool.",
		})
		return nil, nil
	}

	var events []Event
	for _, call := range message.ToolCalls {
		if call.Function.Name == resultToolName {
			payload := json.RawMessage(call.Function.Arguments)
			if !json.Valid(payload) {
				return nil, fmt.Errorf("result payload is not valid JSON")
			}
			s.done = true
			events = append(events,
				Event{Kind: EventPreFinal},
				Event{Kind: EventFinal, Payload: payload},
			)
			return events, nil
		}
		events = append(events, Event{Kind: EventToolCall, Call: call})
	}
	return events, nil
}

// recordUsage accumulates reported token counts, estimating with tiktoken
// when the provider omits them.
func (s *Session) recordUsage(response *model.ChatResponse) {
	u := response.Usage
	if u.PromptTokens == 0 && u.CompletionTokens == 0 {
		u.PromptTokens = model.CountTokensForMessages(s.messages)
		u.CompletionTokens = model.CountTokens(response.Choices[0].Message.Content)
	}
	s.usage.PromptTokens += u.PromptTokens
	s.usage.CompletionTokens += u.CompletionTokens
	s.usage.TotalTokens += u.PromptTokens + u.CompletionTokens
}
