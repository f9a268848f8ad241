// Package config defines the configuration schema for studypilot.
//
// The config file lives at ~/.studypilot/config.json; JSON keys use camelCase.
package config

import (
	"strings"
)

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
}

// ProvidersConfig holds credentials for the supported LLM providers.
type ProvidersConfig struct {
	OpenAI     ProviderConfig `json:"openai"`
	Anthropic  ProviderConfig `json:"anthropic"`
	OpenRouter ProviderConfig `json:"openrouter"`
	Custom     ProviderConfig `json:"custom"`
}

// AgentDefaults holds default values for agent behaviour.
type AgentDefaults struct {
	Model             string  `json:"model"`
	MaxTokens         int     `json:"maxTokens"`
	Temperature       float64 `json:"temperature"`
	MaxToolIterations int     `json:"maxToolIterations"`
	Mode              string  `json:"mode"` // "socratic" | "assignment" | ""
}

func defaultAgentDefaults() AgentDefaults {
	return AgentDefaults{
		Model:             "openai/gpt-4o",
		MaxTokens:         4096,
		Temperature:       0.2,
		MaxToolIterations: 12,
	}
}

// CanvasSeed configures the auto-seeded default Canvas integration.
// When both fields are set, an instance with id "canvas-default" is added to
// the registry at startup (status disconnected until tested).
type CanvasSeed struct {
	BaseURL string `json:"baseUrl"`
	Token   string `json:"token"`
}

// IntegrationsConfig configures integration seeding.
// SeedFile optionally points to a YAML file declaring further instances.
type IntegrationsConfig struct {
	Canvas   CanvasSeed `json:"canvas"`
	SeedFile string     `json:"seedFile,omitempty"`
}

// ServerConfig configures the HTTP API surface.
type ServerConfig struct {
	Addr           string `json:"addr"`
	HealthInterval string `json:"healthInterval"` // cron spec, e.g. "@every 10m"
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           "127.0.0.1:8642",
		HealthInterval: "@every 10m",
	}
}

// Config is the full studypilot configuration.
type Config struct {
	Providers    ProvidersConfig    `json:"providers"`
	Agent        AgentDefaults      `json:"agent"`
	Integrations IntegrationsConfig `json:"integrations"`
	Server       ServerConfig       `json:"server"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Agent:  defaultAgentDefaults(),
		Server: defaultServerConfig(),
	}
}

// ProviderFor resolves the provider credentials for a model string.
// Models are namespaced "provider/model"; an unprefixed model falls back to
// the custom entry, then openai.
func (c *Config) ProviderFor(model string) (string, ProviderConfig) {
	name := ""
	if i := strings.Index(model, "/"); i > 0 {
		name = strings.ToLower(model[:i])
	}
	switch name {
	case "anthropic":
		return "anthropic", c.Providers.Anthropic
	case "openrouter":
		return "openrouter", c.Providers.OpenRouter
	case "openai":
		return "openai", c.Providers.OpenAI
	}
	if c.Providers.Custom.APIKey != "" || c.Providers.Custom.APIBase != "" {
		return "custom", c.Providers.Custom
	}
	return "openai", c.Providers.OpenAI
}
