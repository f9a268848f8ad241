package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agent.Model != def.Agent.Model {
		t.Errorf("expected default model %q, got %q", def.Agent.Model, cfg.Agent.Model)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"agent": map[string]any{
			"model":     "anthropic/claude-sonnet-4",
			"maxTokens": 2048,
		},
		"integrations": map[string]any{
			"canvas": map[string]any{
				"baseUrl": "https://school.instructure.com",
				"token":   "canvas-token",
			},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agent.Model != "anthropic/claude-sonnet-4" {
		t.Errorf("expected model %q, got %q", "anthropic/claude-sonnet-4", cfg.Agent.Model)
	}
	if cfg.Agent.MaxTokens != 2048 {
		t.Errorf("expected maxTokens 2048, got %d", cfg.Agent.MaxTokens)
	}
	if cfg.Integrations.Canvas.BaseURL != "https://school.instructure.com" {
		t.Errorf("unexpected canvas baseUrl: %q", cfg.Integrations.Canvas.BaseURL)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for invalid JSON (falls back to default), got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agent.Model != def.Agent.Model {
		t.Errorf("expected default model %q, got %q", def.Agent.Model, cfg.Agent.Model)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	original := DefaultConfig()
	original.Agent.Model = "openrouter/deepseek-v3"
	original.Agent.MaxToolIterations = 5
	original.Server.Addr = "127.0.0.1:9999"

	if err := Save(&original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Agent.Model != original.Agent.Model {
		t.Errorf("model mismatch: got %q, want %q", loaded.Agent.Model, original.Agent.Model)
	}
	if loaded.Agent.MaxToolIterations != original.Agent.MaxToolIterations {
		t.Errorf("maxToolIterations mismatch: got %d, want %d", loaded.Agent.MaxToolIterations, original.Agent.MaxToolIterations)
	}
	if loaded.Server.Addr != original.Server.Addr {
		t.Errorf("addr mismatch: got %q, want %q", loaded.Server.Addr, original.Server.Addr)
	}
}

func TestSave_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	dir := t.TempDir()
	// Only set one field; the rest should come from DefaultConfig.
	path := writeConfig(t, dir, map[string]any{
		"agent": map[string]any{
			"model": "custom/model",
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agent.Model != "custom/model" {
		t.Errorf("expected model %q, got %q", "custom/model", cfg.Agent.Model)
	}
	if cfg.Agent.MaxToolIterations != def.Agent.MaxToolIterations {
		t.Errorf("expected default maxToolIterations %d, got %d", def.Agent.MaxToolIterations, cfg.Agent.MaxToolIterations)
	}
	if cfg.Server.Addr != def.Server.Addr {
		t.Errorf("expected default addr %q, got %q", def.Server.Addr, cfg.Server.Addr)
	}
}

func TestProviderFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.OpenAI.APIKey = "sk-openai"
	cfg.Providers.Anthropic.APIKey = "sk-ant"
	cfg.Providers.OpenRouter.APIKey = "sk-or"

	cases := []struct {
		model    string
		wantName string
		wantKey  string
	}{
		{"openai/gpt-4o", "openai", "sk-openai"},
		{"anthropic/claude-sonnet-4", "anthropic", "sk-ant"},
		{"openrouter/deepseek-v3", "openrouter", "sk-or"},
		{"unknown-model", "openai", "sk-openai"},
	}
	for _, tc := range cases {
		name, pc := cfg.ProviderFor(tc.model)
		if name != tc.wantName {
			t.Errorf("%s: expected provider %q, got %q", tc.model, tc.wantName, name)
		}
		if pc.APIKey != tc.wantKey {
			t.Errorf("%s: expected key %q, got %q", tc.model, tc.wantKey, pc.APIKey)
		}
	}
}

func TestProviderFor_CustomFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Custom.APIBase = "http://localhost:11434/v1"

	name, pc := cfg.ProviderFor("llama3")
	if name != "custom" {
		t.Errorf("expected custom provider, got %q", name)
	}
	if pc.APIBase != "http://localhost:11434/v1" {
		t.Errorf("unexpected apiBase: %q", pc.APIBase)
	}
}
