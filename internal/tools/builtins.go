package tools

import "github.com/studypilot/studypilot/internal/schema"

// Builtins returns the fixed set of built-in tools, always available
// regardless of which integrations are connected.
func Builtins() []schema.Tool {
	return []schema.Tool{
		NewFetchPageTool(0),
		NewFlashcardsTool(),
	}
}
