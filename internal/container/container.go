// Package container wires core studypilot services using go.uber.org/dig.
package container

import (
	"fmt"
	"log/slog"

	"go.uber.org/dig"

	"github.com/studypilot/studypilot/internal/agent"
	"github.com/studypilot/studypilot/internal/config"
	"github.com/studypilot/studypilot/internal/dispatch"
	"github.com/studypilot/studypilot/internal/health"
	"github.com/studypilot/studypilot/internal/integrations"
	"github.com/studypilot/studypilot/internal/providers"
	"github.com/studypilot/studypilot/internal/schema"
	"github.com/studypilot/studypilot/internal/server"
	"github.com/studypilot/studypilot/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider   schema.LLMProvider
	registry   *integrations.Registry
	dispatcher *dispatch.Dispatcher
	loop       *agent.Loop
	checker    *health.Checker
	srv        *server.Server
}

func (c *Container) Provider() schema.LLMProvider     { return c.provider }
func (c *Container) Registry() *integrations.Registry { return c.registry }
func (c *Container) Dispatcher() *dispatch.Dispatcher { return c.dispatcher }
func (c *Container) AgentLoop() *agent.Loop           { return c.loop }
func (c *Container) HealthChecker() *health.Checker   { return c.checker }
func (c *Container) Server() *server.Server           { return c.srv }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := d.Provide(BuildRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newDispatcher); err != nil {
		return nil, err
	}
	if err := d.Provide(newAgentLoop); err != nil {
		return nil, err
	}
	if err := d.Provide(newHealthChecker); err != nil {
		return nil, err
	}
	if err := d.Provide(newServer); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		registry *integrations.Registry,
		dispatcher *dispatch.Dispatcher,
		loop *agent.Loop,
		checker *health.Checker,
		srv *server.Server,
	) {
		result = &Container{
			provider:   provider,
			registry:   registry,
			dispatcher: dispatcher,
			loop:       loop,
			checker:    checker,
			srv:        srv,
		}
	})
	return result, err
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	model := cfg.Agent.Model
	name, pc := cfg.ProviderFor(model)

	if pc.APIKey == "" && pc.APIBase == "" {
		return nil, fmt.Errorf("no API key configured for model %q, edit %s", model, config.ConfigPath())
	}

	return providers.New(providers.Params{
		APIKey:       pc.APIKey,
		APIBase:      pc.APIBase,
		ExtraHeaders: pc.ExtraHeaders,
		DefaultModel: model,
		ProviderName: name,
	}), nil
}

// BuildRegistry constructs the registry and seeds it from configuration: the
// default Canvas instance when credentials are present, then any entries in
// the YAML seed file. Seeded instances start disconnected until tested.
// Exported so the CLI can inspect integrations without a configured provider.
func BuildRegistry(cfg *config.Config) (*integrations.Registry, error) {
	registry := integrations.NewRegistry()

	if cfg.Integrations.Canvas.BaseURL != "" && cfg.Integrations.Canvas.Token != "" {
		_, err := registry.Seed("canvas-default", integrations.Config{
			Type:       integrations.TypeCanvas,
			Name:       "Canvas",
			Credential: cfg.Integrations.Canvas.Token,
			Endpoint:   cfg.Integrations.Canvas.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("seed canvas integration: %w", err)
		}
	}

	if cfg.Integrations.SeedFile != "" {
		entries, err := config.LoadSeed(cfg.Integrations.SeedFile)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			_, err := registry.Add(integrations.Config{
				Type:       integrations.Type(e.Type),
				Name:       e.Name,
				Credential: e.Credential,
				Endpoint:   e.Endpoint,
				Extra:      e.Extra,
			})
			if err != nil {
				// A bad seed entry should not prevent startup.
				slog.Warn("skipping invalid seed entry", "type", e.Type, "err", err)
			}
		}
	}

	return registry, nil
}

func newDispatcher(registry *integrations.Registry) *dispatch.Dispatcher {
	return dispatch.New(registry, tools.Builtins())
}

func newAgentLoop(p schema.LLMProvider, d *dispatch.Dispatcher, cfg *config.Config) *agent.Loop {
	return agent.New(p, d, schema.Settings{
		Model:             cfg.Agent.Model,
		MaxToolIterations: cfg.Agent.MaxToolIterations,
		Temperature:       cfg.Agent.Temperature,
		MaxTokens:         cfg.Agent.MaxTokens,
	})
}

func newHealthChecker(registry *integrations.Registry, cfg *config.Config) *health.Checker {
	return health.NewChecker(registry, cfg.Server.HealthInterval)
}

func newServer(loop *agent.Loop, d *dispatch.Dispatcher, registry *integrations.Registry, cfg *config.Config) *server.Server {
	return server.New(cfg.Server.Addr, loop, d, registry)
}
