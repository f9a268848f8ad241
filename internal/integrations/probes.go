package integrations

import (
	"context"

	"github.com/studypilot/studypilot/internal/integrations/clients"
)

// probe performs the per-type lightweight authenticated read used by
// TestConnection. All failures come back inside the Result.
func probe(ctx context.Context, inst Instance) clients.Result {
	switch inst.Type {
	case TypeCanvas:
		return clients.NewCanvas(inst.Endpoint, inst.Credential()).Profile(ctx)
	case TypeGitHub:
		return clients.NewGitHub(inst.Endpoint, inst.Credential()).Viewer(ctx)
	case TypeNotion:
		return clients.NewNotion(inst.Endpoint, inst.Credential()).Me(ctx)
	case TypeSlack:
		return clients.NewSlack(inst.Endpoint, inst.Credential()).AuthCheck(ctx)
	case TypeDrive:
		return clients.NewDrive(inst.Endpoint, inst.Credential()).About(ctx)
	}
	return clients.Failf("unknown integration type %q", inst.Type)
}
