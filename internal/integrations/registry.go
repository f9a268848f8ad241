package integrations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/studypilot/studypilot/internal/schema"
)

// ErrNotFound is returned when an instance id is absent from the registry.
var ErrNotFound = errors.New("integration not found")

// Config is the input to Registry.Add.
type Config struct {
	Type       Type
	Name       string
	Credential string
	Endpoint   string
	Extra      map[string]string
}

// Patch carries the fields Registry.Update may merge. Nil means unchanged.
type Patch struct {
	Name       *string
	Credential *string
	Endpoint   *string
	Extra      map[string]string
}

// TestReport is the structured outcome of a connection test.
type TestReport struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Summary any    `json:"summary,omitempty"`
}

// Stats is a pure projection of the registry contents.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	ByType   map[string]int `json:"byType"`
}

// Registry holds all configured integration instances, keyed by id.
// It is shared process-wide mutable state; a single RWMutex serialises
// mutations (admin operations are rare, per-id locking is not warranted).
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	order     []string // insertion order; the same-type tie-break rule
}

func NewRegistry() *Registry {
	return &Registry{instances: make(map[string]*Instance)}
}

// Add validates cfg, constructs a new disconnected instance with a fresh id,
// stores it, and returns a copy. It has no side effect on external services.
func (r *Registry) Add(cfg Config) (Instance, error) {
	if err := validate(cfg); err != nil {
		return Instance{}, err
	}
	return r.insert(newID(cfg.Type), cfg)
}

// Seed inserts an instance with a caller-chosen id (used for the
// configuration-derived default). It is a no-op when the id already exists.
func (r *Registry) Seed(id string, cfg Config) (Instance, error) {
	if err := validate(cfg); err != nil {
		return Instance{}, err
	}

	r.mu.RLock()
	_, exists := r.instances[id]
	r.mu.RUnlock()
	if exists {
		return r.Get(id)
	}
	return r.insert(id, cfg)
}

func (r *Registry) insert(id string, cfg Config) (Instance, error) {
	now := time.Now()
	inst := &Instance{
		ID:         id,
		Type:       cfg.Type,
		Name:       lo.CoalesceOrEmpty(cfg.Name, defaultName(cfg.Type)),
		Endpoint:   cfg.Endpoint,
		Extra:      cfg.Extra,
		Status:     StatusDisconnected,
		CreatedAt:  now,
		UpdatedAt:  now,
		credential: cfg.Credential,
	}

	r.mu.Lock()
	r.instances[inst.ID] = inst
	r.order = append(r.order, inst.ID)
	r.mu.Unlock()

	slog.Info("integration added", "id", inst.ID, "type", inst.Type)
	return *inst, nil
}

// Get returns a copy of the instance with the given id.
func (r *Registry) Get(id string) (Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[id]
	if !ok {
		return Instance{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *inst, nil
}

// List returns copies of all instances in insertion order.
func (r *Registry) List() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Instance, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.instances[id])
	}
	return out
}

// Update merges the allowed fields into the instance and touches UpdatedAt.
// It does not re-test the connection.
func (r *Registry) Update(id string, patch Patch) (Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return Instance{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if patch.Name != nil {
		inst.Name = *patch.Name
	}
	if patch.Credential != nil {
		inst.credential = *patch.Credential
	}
	if patch.Endpoint != nil {
		inst.Endpoint = *patch.Endpoint
	}
	if patch.Extra != nil {
		inst.Extra = patch.Extra
	}
	inst.UpdatedAt = time.Now()

	return *inst, nil
}

// Delete removes the instance with the given id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.instances, id)
	r.order = lo.Without(r.order, id)
	slog.Info("integration removed", "id", id)
	return nil
}

// TestConnection runs the per-type connectivity probe and records the outcome.
// On success the instance becomes connected with a fresh LastSync; on any
// failure it becomes error. All failures are captured into the report; this
// method never returns a probe failure as a Go error.
func (r *Registry) TestConnection(ctx context.Context, id string) (TestReport, error) {
	inst, err := r.Get(id)
	if err != nil {
		return TestReport{}, err
	}

	// Probe outside the lock; only the status write is serialised.
	res := probe(ctx, inst)

	r.mu.Lock()
	if live, ok := r.instances[id]; ok {
		if res.Success {
			live.Status = StatusConnected
			live.LastSync = time.Now()
			live.LastError = ""
		} else {
			live.Status = StatusError
			live.LastError = res.Error
		}
		live.UpdatedAt = time.Now()
	}
	r.mu.Unlock()

	if !res.Success {
		slog.Warn("connection test failed", "id", id, "type", inst.Type, "err", res.Error)
		return TestReport{Success: false, Error: res.Error}, nil
	}

	slog.Info("connection test ok", "id", id, "type", inst.Type)
	return TestReport{Success: true, Summary: res.Data}, nil
}

// FirstConnected returns the first connected instance of type t in insertion
// order, the documented tie-break when several instances of one type exist.
func (r *Registry) FirstConnected(t Type) (Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		inst := r.instances[id]
		if inst.Type == t && inst.Status == StatusConnected {
			return *inst, true
		}
	}
	return Instance{}, false
}

// Catalog assembles the tool descriptors contributed by currently-connected
// integrations. Each connected type contributes its fixed descriptor set once
// (the dispatcher picks which instance executes); order is type-grouped and
// stable, following TypeOrder.
func (r *Registry) Catalog() []schema.ToolDescriptor {
	var out []schema.ToolDescriptor
	for _, t := range TypeOrder {
		if _, ok := r.FirstConnected(t); ok {
			out = append(out, Descriptors(t)...)
		}
	}
	return out
}

// Stats counts instances by status and by type.
func (r *Registry) Stats() Stats {
	list := r.List()
	return Stats{
		Total:    len(list),
		ByStatus: lo.CountValuesBy(list, func(i Instance) string { return string(i.Status) }),
		ByType:   lo.CountValuesBy(list, func(i Instance) string { return string(i.Type) }),
	}
}

// validate rejects configuration errors synchronously, before storage.
func validate(cfg Config) error {
	if !KnownType(cfg.Type) {
		return fmt.Errorf("unknown integration type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.Credential) == "" {
		return fmt.Errorf("%s: credential is required", cfg.Type)
	}
	if cfg.Type == TypeCanvas && strings.TrimSpace(cfg.Endpoint) == "" {
		return fmt.Errorf("canvas: endpoint (institution base URL) is required")
	}
	return nil
}

// newID builds a collision-free id: type + timestamp + random suffix.
func newID(t Type) string {
	return fmt.Sprintf("%s-%d-%s", t, time.Now().UnixMilli(), uuid.NewString()[:8])
}

func defaultName(t Type) string {
	switch t {
	case TypeCanvas:
		return "Canvas"
	case TypeGitHub:
		return "GitHub"
	case TypeNotion:
		return "Notion"
	case TypeSlack:
		return "Slack"
	case TypeDrive:
		return "Google Drive"
	}
	return string(t)
}
