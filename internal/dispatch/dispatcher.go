// Package dispatch resolves tool calls issued by the model into concrete
// executions: built-in tools directly, integration tools through the
// name → type → connected-instance table.
package dispatch

import (
	"context"
	"log/slog"
	"sort"

	"github.com/studypilot/studypilot/internal/integrations"
	"github.com/studypilot/studypilot/internal/integrations/clients"
	"github.com/studypilot/studypilot/internal/schema"
)

// Dispatcher is the only component that knows how a flat tool name maps onto
// an integration instance. The agent loop and the model see only the catalog.
type Dispatcher struct {
	registry *integrations.Registry
	builtins map[string]schema.Tool
}

// New creates a Dispatcher over the registry and the built-in tools.
func New(registry *integrations.Registry, builtins []schema.Tool) *Dispatcher {
	m := make(map[string]schema.Tool, len(builtins))
	for _, t := range builtins {
		m[t.Name()] = t
	}
	return &Dispatcher{registry: registry, builtins: m}
}

// Catalog returns the current tool catalog: built-in descriptors (sorted by
// name, stable) followed by the descriptors contributed by connected
// integrations. Rebuilt on every call since connection status can change
// between requests.
func (d *Dispatcher) Catalog() []schema.ToolDescriptor {
	names := make([]string, 0, len(d.builtins))
	for name := range d.builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]schema.ToolDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, schema.DescriptorOf(d.builtins[name]))
	}
	return append(out, d.registry.Catalog()...)
}

// Definitions returns the catalog in OpenAI function-calling format.
func (d *Dispatcher) Definitions() []map[string]any {
	return schema.Definitions(d.Catalog())
}

// Dispatch resolves name to a tool and executes it with args. Every failure
// mode comes back inside the Result; Dispatch never returns an error and
// never lets a panic escape.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (res clients.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tool panicked", "tool", name, "panic", r)
			res = clients.Failf("tool %s panicked: %v", name, r)
		}
	}()

	if t, ok := d.builtins[name]; ok {
		out, err := t.Execute(ctx, args)
		if err != nil {
			return clients.Failf("%s: %v", name, err)
		}
		return clients.Ok(out)
	}

	typ, ok := integrations.OwnerOf(name)
	if !ok {
		return clients.Failf("Unknown tool %s", name)
	}

	inst, ok := d.registry.FirstConnected(typ)
	if !ok {
		return clients.Failf("No %s server connected", typ)
	}

	handler, ok := handlers[name]
	if !ok {
		// A descriptor without a handler is a programming error; surface it
		// like any other tool failure so the loop keeps going.
		return clients.Failf("Unknown tool %s", name)
	}

	// Client payloads pass through unmodified.
	return handler(ctx, inst, args)
}
