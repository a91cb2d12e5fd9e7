// Package agent runs the conversational tool loop over the F1 services.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pranjalekhande/paddock-ai/internal/llm"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// Handler executes one tool call. The result string is fed back to the model
// verbatim as the tool message content.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool pairs a function schema with its handler.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Handler     Handler
}

// Registry holds the tools in registration order, which is also the priority
// order presented to the model.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// noParams is the schema for tools that take no arguments.
var noParams = json.RawMessage(`{"type": "object", "properties": {}}`)

// Register adds a tool. Registering a duplicate name replaces the handler
// but keeps the original position.
func (r *Registry) Register(tool Tool) {
	if tool.Parameters == nil {
		tool.Parameters = noParams
	}
	if _, exists := r.byName[tool.Name]; !exists {
		r.tools = append(r.tools, tool)
	} else {
		for i := range r.tools {
			if r.tools[i].Name == tool.Name {
				r.tools[i] = tool
				break
			}
		}
	}
	r.byName[tool.Name] = tool
}

// Definitions returns the function schemas in priority order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, len(r.tools))
	for i, tool := range r.tools {
		defs[i] = llm.ToolDefinition{
			Type: "function",
			Function: llm.FunctionSchema{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		}
	}
	return defs
}

// Names lists the registered tool names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, tool := range r.tools {
		names[i] = tool.Name
	}
	return names
}

// Invoke runs the named tool.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q: %w", name, models.ErrNotFound)
	}
	return tool.Handler(ctx, args)
}
