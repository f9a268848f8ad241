package dispatch

import (
	"context"

	"github.com/studypilot/studypilot/internal/integrations"
	"github.com/studypilot/studypilot/internal/integrations/clients"
)

// handlerFunc executes one integration tool against a connected instance.
type handlerFunc func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result

// handlers is the declarative table mapping tool name → handler. Together
// with integrations.OwnerOf it forms the two-level indirection
// tool name → type → connected instance → client method.
var handlers = map[string]handlerFunc{
	// canvas
	"list_courses": func(ctx context.Context, inst integrations.Instance, _ map[string]any) clients.Result {
		return canvasFor(inst).Courses(ctx)
	},
	"list_upcoming_assignments": func(ctx context.Context, inst integrations.Instance, _ map[string]any) clients.Result {
		return canvasFor(inst).UpcomingAssignments(ctx)
	},
	"get_assignment": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return canvasFor(inst).Assignment(ctx, intArg(args, "course_id"), intArg(args, "assignment_id"))
	},
	"list_announcements": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return canvasFor(inst).Announcements(ctx, intArg(args, "course_id"))
	},
	"get_grades": func(ctx context.Context, inst integrations.Instance, _ map[string]any) clients.Result {
		return canvasFor(inst).Grades(ctx)
	},

	// github
	"create_repository": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return githubFor(inst).CreateRepository(ctx,
			strArg(args, "name"), strArg(args, "description"), boolArg(args, "private"))
	},
	"list_repositories": func(ctx context.Context, inst integrations.Instance, _ map[string]any) clients.Result {
		return githubFor(inst).ListRepositories(ctx)
	},
	"create_issue": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return githubFor(inst).CreateIssue(ctx,
			strArg(args, "repo"), strArg(args, "title"), strArg(args, "body"))
	},

	// notion
	"search_notes_pages": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return notionFor(inst).SearchPages(ctx, strArg(args, "query"))
	},
	"create_notes_page": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		parent := strArg(args, "parent_id")
		if parent == "" {
			parent = inst.Extra["parentPageId"]
		}
		if parent == "" {
			return clients.Failf("create_notes_page: parent_id is required (no default configured)")
		}
		return notionFor(inst).CreatePage(ctx, parent, strArg(args, "title"), strArg(args, "content"))
	},
	"append_to_notes_page": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return notionFor(inst).AppendToPage(ctx, strArg(args, "page_id"), strArg(args, "content"))
	},

	// slack
	"send_channel_message": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return slackFor(inst).SendChannelMessage(ctx, strArg(args, "channel"), strArg(args, "text"))
	},
	"list_channels": func(ctx context.Context, inst integrations.Instance, _ map[string]any) clients.Result {
		return slackFor(inst).ListChannels(ctx)
	},

	// gdrive
	"search_files": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return driveFor(inst).SearchFiles(ctx, strArg(args, "query"))
	},
	"get_file_metadata": func(ctx context.Context, inst integrations.Instance, args map[string]any) clients.Result {
		return driveFor(inst).FileMetadata(ctx, strArg(args, "file_id"))
	},
}

func canvasFor(inst integrations.Instance) *clients.Canvas {
	return clients.NewCanvas(inst.Endpoint, inst.Credential())
}

func githubFor(inst integrations.Instance) *clients.GitHub {
	return clients.NewGitHub(inst.Endpoint, inst.Credential())
}

func notionFor(inst integrations.Instance) *clients.Notion {
	return clients.NewNotion(inst.Endpoint, inst.Credential())
}

func slackFor(inst integrations.Instance) *clients.Slack {
	return clients.NewSlack(inst.Endpoint, inst.Credential())
}

func driveFor(inst integrations.Instance) *clients.Drive {
	return clients.NewDrive(inst.Endpoint, inst.Credential())
}

// Argument extraction is permissive: unknown extra fields are ignored, missing
// required fields pass through as zero values and fail descriptively in the
// underlying client or service.

func strArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64: // JSON numbers decode as float64
		return int(v)
	case int:
		return v
	}
	return 0
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}
