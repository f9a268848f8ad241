package schema

import (
	"context"
	"encoding/json"
)

// Tool is the interface all built-in LLM-callable tools must satisfy.
// Integration-backed tools are described by ToolDescriptor instead and
// executed through the dispatcher.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	Execute(ctx context.Context, params map[string]any) (string, error)
}

// ToolDescriptor is the static metadata describing one invocable capability.
// Descriptors are aggregated into the catalog sent to the model each turn.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// DescriptorOf builds a ToolDescriptor from a built-in tool.
func DescriptorOf(t Tool) ToolDescriptor {
	return ToolDescriptor{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}

// Definitions converts descriptors to OpenAI function-calling format.
func Definitions(descriptors []ToolDescriptor) []map[string]any {
	list := make([]map[string]any, 0, len(descriptors))
	for _, d := range descriptors {
		var params any
		if err := json.Unmarshal(d.Parameters, &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        d.Name,
				"description": d.Description,
				"parameters":  params,
			},
		})
	}
	return list
}
