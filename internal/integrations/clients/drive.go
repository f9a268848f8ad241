package clients

import (
	"context"
	"fmt"
	"strings"
)

const driveAPIBase = "https://www.googleapis.com"

// Drive wraps the Google Drive REST API v3 with a bearer token.
type Drive struct {
	rest restClient
}

func NewDrive(endpoint, token string) *Drive {
	if endpoint == "" {
		endpoint = driveAPIBase
	}
	return &Drive{rest: newRESTClient(endpoint, map[string]string{
		"Authorization": "Bearer " + token,
	})}
}

// About fetches the account owner, used as the connectivity probe.
func (d *Drive) About(ctx context.Context) Result {
	var resp struct {
		User map[string]any `json:"user"`
	}
	err := d.rest.getJSON(ctx, "/drive/v3/about", map[string]string{
		"fields": "user",
	}, &resp)
	if err != nil {
		return Failf("drive about: %v", err)
	}
	return Ok(map[string]any{
		"name":  resp.User["displayName"],
		"email": resp.User["emailAddress"],
	})
}

// SearchFiles searches files whose name contains query.
func (d *Drive) SearchFiles(ctx context.Context, query string) Result {
	// Escape single quotes for the Drive query language.
	escaped := strings.ReplaceAll(query, "'", `\'`)

	var resp struct {
		Files []map[string]any `json:"files"`
	}
	err := d.rest.getJSON(ctx, "/drive/v3/files", map[string]string{
		"q":        fmt.Sprintf("name contains '%s' and trashed = false", escaped),
		"fields":   "files(id,name,mimeType,modifiedTime)",
		"pageSize": "25",
	}, &resp)
	if err != nil {
		return Failf("drive search: %v", err)
	}
	return Ok(resp.Files)
}

// FileMetadata fetches metadata for one file by id.
func (d *Drive) FileMetadata(ctx context.Context, fileID string) Result {
	var file map[string]any
	err := d.rest.getJSON(ctx, "/drive/v3/files/"+fileID, map[string]string{
		"fields": "id,name,mimeType,size,modifiedTime,webViewLink",
	}, &file)
	if err != nil {
		return Failf("drive file metadata: %v", err)
	}
	return Ok(file)
}
