package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Photosynthesis Notes</title><style>body { color: red }</style></head>
<body>
<article>
<h1>Photosynthesis Notes</h1>
<p>Photosynthesis converts light energy into chemical energy stored in glucose.</p>
<p>The light-dependent reactions occur in the thylakoid membranes.</p>
<script>console.log("tracker")</script>
</article>
</body>
</html>`

func fetchResult(t *testing.T, out string) map[string]any {
	t.Helper()
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	return res
}

func TestFetchPage_ExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	tool := NewFetchPageTool(0)
	out, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := fetchResult(t, out)
	text, _ := res["text"].(string)
	if !strings.Contains(text, "light energy into chemical energy") {
		t.Errorf("expected article text, got %q", text)
	}
	if strings.Contains(text, "console.log") {
		t.Error("script content leaked into extracted text")
	}
	if strings.Contains(text, "<p>") {
		t.Error("HTML tags leaked into extracted text")
	}
	if res["truncated"] != false {
		t.Error("short page must not be truncated")
	}
}

func TestFetchPage_Truncation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(strings.Repeat("a", 500)))
	}))
	defer srv.Close()

	tool := NewFetchPageTool(100)
	out, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := fetchResult(t, out)
	if res["truncated"] != true {
		t.Error("expected truncated=true")
	}
	if text, _ := res["text"].(string); len(text) != 100 {
		t.Errorf("expected 100 chars, got %d", len(text))
	}
}

func TestFetchPage_MissingURL(t *testing.T) {
	tool := NewFetchPageTool(0)
	out, err := tool.Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Error:") {
		t.Errorf("expected Error: prefix, got %q", out)
	}
}

func TestFetchPage_RejectsNonHTTPScheme(t *testing.T) {
	tool := NewFetchPageTool(0)
	out, err := tool.Execute(context.Background(), map[string]any{"url": "file:///etc/passwd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "only http/https") {
		t.Errorf("expected scheme rejection, got %q", out)
	}
}

func TestStripHTMLTags(t *testing.T) {
	in := "<div><script>x()</script><p>Hello   world</p><style>.a{}</style></div>"
	got := stripHTMLTags(in)
	if got != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", got)
	}
}
