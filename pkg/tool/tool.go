// Package tool exposes the repository analyzer to the model through a
// function-calling surface.
package tool

import "encoding/json"

// Tool represents a tool that can be called by the LLM
type Tool interface {
	Name() string
	Description() string
	Parameters() ParameterSchema
	Execute(params map[string]any) (*Result, error)
}

// ParameterSchema defines the parameters a tool accepts
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

// PropertySchema defines a single parameter
type PropertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Default     any             `json:"default,omitempty"`
	Items       *PropertySchema `json:"items,omitempty"` // For array types
	Enum        []string        `json:"enum,omitempty"`  // For string types with fixed options
}

// Result represents the result of a tool execution. Tool failures are
// reported through Error with Success false; the Go error return is reserved
// for dispatch problems such as an unknown tool name.
type Result struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ToOpenAIFunction converts a tool to OpenAI function calling format
func ToOpenAIFunction(t Tool) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name(),
			"description": t.Description(),
			"parameters":  t.Parameters(),
		},
	}
}

// ToJSON converts a result to JSON
func ToJSON(r *Result) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
