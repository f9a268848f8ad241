// Package integrations owns the process-wide registry of configured
// integration instances, their connection lifecycle, and the tool catalog
// they contribute to the agent loop.
package integrations

import (
	"time"
)

// Type identifies one supported integration kind.
type Type string

const (
	TypeCanvas Type = "canvas"
	TypeGitHub Type = "github"
	TypeNotion Type = "notion"
	TypeSlack  Type = "slack"
	TypeDrive  Type = "gdrive"
)

// TypeOrder is the fixed enumeration order used for catalog assembly and stats.
var TypeOrder = []Type{TypeCanvas, TypeGitHub, TypeNotion, TypeSlack, TypeDrive}

// KnownType reports whether t is a supported integration type.
func KnownType(t Type) bool {
	for _, k := range TypeOrder {
		if k == t {
			return true
		}
	}
	return false
}

// Status is the connection state of an instance.
// It transitions only via Registry.TestConnection.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
)

// Instance is one configured integration. Instances are exclusively owned by
// the Registry and mutated only through its methods; callers receive copies.
type Instance struct {
	ID       string
	Type     Type
	Name     string
	Endpoint string            // optional API base override
	Extra    map[string]string // service-specific extras (e.g. notion parent page)

	Status    Status
	LastSync  time.Time // zero = never connected
	LastError string

	CreatedAt time.Time
	UpdatedAt time.Time

	credential string
}

// Credential returns the secret used to authenticate against the service.
// It is never included in Projection.
func (i Instance) Credential() string { return i.credential }

// Projection is the external JSON view of an instance. The credential is
// replaced by a hasCredential flag.
func (i Instance) Projection() map[string]any {
	out := map[string]any{
		"id":            i.ID,
		"type":          string(i.Type),
		"name":          i.Name,
		"status":        string(i.Status),
		"hasCredential": i.credential != "",
		"createdAt":     i.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":     i.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if i.Endpoint != "" {
		out["endpoint"] = i.Endpoint
	}
	if len(i.Extra) > 0 {
		out["extra"] = i.Extra
	}
	if !i.LastSync.IsZero() {
		out["lastSync"] = i.LastSync.UTC().Format(time.RFC3339)
	}
	if i.LastError != "" {
		out["lastError"] = i.LastError
	}
	return out
}
