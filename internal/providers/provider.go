// Package providers implements the LLM backends behind schema.LLMProvider.
package providers

import "github.com/studypilot/studypilot/internal/schema"

// Params carries the raw config values needed to construct a provider.
// The caller extracts these from config.Config to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
	ProviderName string // "openai" | "anthropic" | "openrouter" | "custom"
}

// New constructs the provider for the given params. All supported backends
// speak either the OpenAI chat-completions protocol or the Anthropic Messages
// API; HTTPProvider handles both.
func New(p Params) schema.LLMProvider {
	return NewHTTPProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ProviderName, p.ExtraHeaders)
}
