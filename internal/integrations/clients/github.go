package clients

import (
	"context"
	"fmt"
)

const githubAPIBase = "https://api.github.com"

// GitHub wraps the GitHub REST API v3.
// endpoint overrides the API base for GitHub Enterprise hosts.
type GitHub struct {
	rest restClient
}

func NewGitHub(endpoint, token string) *GitHub {
	if endpoint == "" {
		endpoint = githubAPIBase
	}
	return &GitHub{rest: newRESTClient(endpoint, map[string]string{
		"Authorization":        "Bearer " + token,
		"X-GitHub-Api-Version": "2022-11-28",
	})}
}

// Viewer fetches the authenticated user, used as the connectivity probe.
func (g *GitHub) Viewer(ctx context.Context) Result {
	var user map[string]any
	if err := g.rest.getJSON(ctx, "/user", nil, &user); err != nil {
		return Failf("github viewer: %v", err)
	}
	return Ok(map[string]any{
		"login": user["login"],
		"name":  user["name"],
	})
}

// CreateRepository creates a repository under the authenticated user.
func (g *GitHub) CreateRepository(ctx context.Context, name, description string, private bool) Result {
	var repo map[string]any
	err := g.rest.postJSON(ctx, "/user/repos", map[string]any{
		"name":        name,
		"description": description,
		"private":     private,
		"auto_init":   true,
	}, &repo)
	if err != nil {
		return Failf("github create repository: %v", err)
	}
	return Ok(map[string]any{
		"full_name": repo["full_name"],
		"url":       repo["html_url"],
		"private":   repo["private"],
	})
}

// ListRepositories lists the user's repositories, most recently pushed first.
func (g *GitHub) ListRepositories(ctx context.Context) Result {
	var repos []map[string]any
	err := g.rest.getJSON(ctx, "/user/repos", map[string]string{
		"sort":     "pushed",
		"per_page": "30",
	}, &repos)
	if err != nil {
		return Failf("github list repositories: %v", err)
	}

	out := make([]map[string]any, 0, len(repos))
	for _, repo := range repos {
		out = append(out, map[string]any{
			"full_name": repo["full_name"],
			"url":       repo["html_url"],
			"private":   repo["private"],
		})
	}
	return Ok(out)
}

// CreateIssue opens an issue on repo ("owner/name").
func (g *GitHub) CreateIssue(ctx context.Context, repo, title, body string) Result {
	var issue map[string]any
	err := g.rest.postJSON(ctx, fmt.Sprintf("/repos/%s/issues", repo), map[string]any{
		"title": title,
		"body":  body,
	}, &issue)
	if err != nil {
		return Failf("github create issue: %v", err)
	}
	return Ok(map[string]any{
		"number": issue["number"],
		"url":    issue["html_url"],
	})
}
