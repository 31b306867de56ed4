package tool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alexeygrigorev/github-project-scorer/pkg/analyzer"
)

// Registry manages all available tools
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewEmptyRegistry creates a new empty tool registry
func NewEmptyRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// NewRegistry creates a registry with the repository analysis tools bound to
// the given analyzer.
func NewRegistry(a *analyzer.Analyzer) *Registry {
	r := NewEmptyRegistry()
	r.Register(&ListFilesTool{analyzer: a})
	r.Register(&ReadFileTool{analyzer: a})
	r.Register(&FindFilesByNameTool{analyzer: a})
	r.Register(&SearchContentTool{analyzer: a})
	r.Register(&ProjectSummaryTool{analyzer: a})
	return r
}

// Register registers a tool
func (r *Registry) Register(t Tool) {
	if r == nil || t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// Count returns the number of registered tools
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute executes a tool by name
func (r *Registry) Execute(name string, params map[string]any) (*Result, error) {
	if name == "" {
		return nil, fmt.Errorf("tool name cannot be empty")
	}
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return t.Execute(params)
}

// ToOpenAIFunctions converts all tools to OpenAI function calling format
func (r *Registry) ToOpenAIFunctions() []map[string]any {
	tools := r.List()
	functions := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		functions = append(functions, ToOpenAIFunction(t))
	}
	return functions
}
