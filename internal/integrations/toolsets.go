package integrations

import (
	"encoding/json"

	"github.com/studypilot/studypilot/internal/schema"
)

// descriptorSets is the fixed set of tool descriptors each integration type
// contributes to the catalog while connected. The mapping tool name → owning
// type is derived from these sets; the dispatcher resolves names through it.
var descriptorSets = map[Type][]schema.ToolDescriptor{
	TypeCanvas: {
		{
			Name:        "list_courses",
			Description: "List the student's active Canvas courses.",
			Parameters:  noParams,
		},
		{
			Name:        "list_upcoming_assignments",
			Description: "List upcoming assignments and their due dates across all courses.",
			Parameters:  noParams,
		},
		{
			Name:        "get_assignment",
			Description: "Get the full description of one assignment.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"course_id": {"type": "integer", "description": "Canvas course id"},
					"assignment_id": {"type": "integer", "description": "Canvas assignment id"}
				},
				"required": ["course_id", "assignment_id"]
			}`),
		},
		{
			Name:        "list_announcements",
			Description: "List recent announcements for a course.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"course_id": {"type": "integer", "description": "Canvas course id"}
				},
				"required": ["course_id"]
			}`),
		},
		{
			Name:        "get_grades",
			Description: "Get the student's current score per active course.",
			Parameters:  noParams,
		},
	},
	TypeGitHub: {
		{
			Name:        "create_repository",
			Description: "Create a GitHub repository under the student's account.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Repository name"},
					"description": {"type": "string", "description": "Short description"},
					"private": {"type": "boolean", "description": "Create as private (default false)"}
				},
				"required": ["name"]
			}`),
		},
		{
			Name:        "list_repositories",
			Description: "List the student's repositories, most recently pushed first.",
			Parameters:  noParams,
		},
		{
			Name:        "create_issue",
			Description: "Open an issue on a repository.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"repo": {"type": "string", "description": "Repository in owner/name form"},
					"title": {"type": "string", "description": "Issue title"},
					"body": {"type": "string", "description": "Issue body"}
				},
				"required": ["repo", "title"]
			}`),
		},
	},
	TypeNotion: {
		{
			Name:        "search_notes_pages",
			Description: "Search the student's Notion pages.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query"}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "create_notes_page",
			Description: "Create a Notion page for notes. Requires a parent page id (or a configured default).",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"parent_id": {"type": "string", "description": "Parent page id; omit to use the configured default"},
					"title": {"type": "string", "description": "Page title"},
					"content": {"type": "string", "description": "Initial page content"}
				},
				"required": ["title"]
			}`),
		},
		{
			Name:        "append_to_notes_page",
			Description: "Append a paragraph to an existing Notion page.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"page_id": {"type": "string", "description": "Target page id"},
					"content": {"type": "string", "description": "Text to append"}
				},
				"required": ["page_id", "content"]
			}`),
		},
	},
	TypeSlack: {
		{
			Name:        "send_channel_message",
			Description: "Send a message to a Slack channel (e.g. a study group).",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"channel": {"type": "string", "description": "Channel id or name"},
					"text": {"type": "string", "description": "Message text"}
				},
				"required": ["channel", "text"]
			}`),
		},
		{
			Name:        "list_channels",
			Description: "List Slack channels visible to the bot.",
			Parameters:  noParams,
		},
	},
	TypeDrive: {
		{
			Name:        "search_files",
			Description: "Search Google Drive files by name.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Name fragment to search for"}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "get_file_metadata",
			Description: "Get metadata for one Google Drive file.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"file_id": {"type": "string", "description": "Drive file id"}
				},
				"required": ["file_id"]
			}`),
		},
	},
}

var noParams = json.RawMessage(`{"type": "object", "properties": {}}`)

// toolOwners maps every integration tool name to its owning type.
var toolOwners = func() map[string]Type {
	owners := make(map[string]Type)
	for t, set := range descriptorSets {
		for _, d := range set {
			owners[d.Name] = t
		}
	}
	return owners
}()

// Descriptors returns the fixed descriptor set for an integration type.
func Descriptors(t Type) []schema.ToolDescriptor {
	return descriptorSets[t]
}

// OwnerOf resolves a tool name to the integration type that owns it.
func OwnerOf(name string) (Type, bool) {
	t, ok := toolOwners[name]
	return t, ok
}
