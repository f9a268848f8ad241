package clients

import (
	"context"
	"fmt"
)

const notionAPIBase = "https://api.notion.com"

// Notion wraps the Notion REST API.
type Notion struct {
	rest restClient
}

func NewNotion(endpoint, token string) *Notion {
	if endpoint == "" {
		endpoint = notionAPIBase
	}
	return &Notion{rest: newRESTClient(endpoint, map[string]string{
		"Authorization":  "Bearer " + token,
		"Notion-Version": "2022-06-28",
	})}
}

// Me fetches the bot user, used as the connectivity probe.
func (n *Notion) Me(ctx context.Context) Result {
	var user map[string]any
	if err := n.rest.getJSON(ctx, "/v1/users/me", nil, &user); err != nil {
		return Failf("notion me: %v", err)
	}
	return Ok(map[string]any{
		"id":   user["id"],
		"name": user["name"],
	})
}

// SearchPages searches pages shared with the integration.
func (n *Notion) SearchPages(ctx context.Context, query string) Result {
	var resp struct {
		Results []map[string]any `json:"results"`
	}
	err := n.rest.postJSON(ctx, "/v1/search", map[string]any{
		"query":  query,
		"filter": map[string]any{"value": "page", "property": "object"},
	}, &resp)
	if err != nil {
		return Failf("notion search: %v", err)
	}

	out := make([]map[string]any, 0, len(resp.Results))
	for _, page := range resp.Results {
		out = append(out, map[string]any{
			"id":    page["id"],
			"url":   page["url"],
			"title": pageTitle(page),
		})
	}
	return Ok(out)
}

// CreatePage creates a page under parentID with a title and one text block.
func (n *Notion) CreatePage(ctx context.Context, parentID, title, content string) Result {
	body := map[string]any{
		"parent": map[string]any{"page_id": parentID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": []any{textRun(title)},
			},
		},
	}
	if content != "" {
		body["children"] = []any{paragraphBlock(content)}
	}

	var page map[string]any
	if err := n.rest.postJSON(ctx, "/v1/pages", body, &page); err != nil {
		return Failf("notion create page: %v", err)
	}
	return Ok(map[string]any{
		"id":  page["id"],
		"url": page["url"],
	})
}

// AppendToPage appends a paragraph block to an existing page.
func (n *Notion) AppendToPage(ctx context.Context, pageID, content string) Result {
	path := fmt.Sprintf("/v1/blocks/%s/children", pageID)
	var resp map[string]any
	err := n.rest.patchJSON(ctx, path, map[string]any{
		"children": []any{paragraphBlock(content)},
	}, &resp)
	if err != nil {
		return Failf("notion append: %v", err)
	}
	return Ok(map[string]any{"appended": true, "page_id": pageID})
}

func textRun(text string) map[string]any {
	return map[string]any{
		"type": "text",
		"text": map[string]any{"content": text},
	}
}

func paragraphBlock(text string) map[string]any {
	return map[string]any{
		"object": "block",
		"type":   "paragraph",
		"paragraph": map[string]any{
			"rich_text": []any{textRun(text)},
		},
	}
}

// pageTitle digs the plain-text title out of a Notion page object.
func pageTitle(page map[string]any) string {
	props, _ := page["properties"].(map[string]any)
	for _, p := range props {
		prop, ok := p.(map[string]any)
		if !ok || prop["type"] != "title" {
			continue
		}
		runs, _ := prop["title"].([]any)
		title := ""
		for _, r := range runs {
			if run, ok := r.(map[string]any); ok {
				if s, ok := run["plain_text"].(string); ok {
					title += s
				}
			}
		}
		return title
	}
	return ""
}
