package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/studypilot/studypilot/internal/integrations"
	"github.com/studypilot/studypilot/internal/schema"
)

type stubTool struct {
	name  string
	out   string
	err   error
	panic bool
}

func (s stubTool) Name() string                { return s.name }
func (s stubTool) Description() string         { return "stub" }
func (s stubTool) Parameters() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (s stubTool) Execute(context.Context, map[string]any) (string, error) {
	if s.panic {
		panic("boom")
	}
	return s.out, s.err
}

// connectedGitHub stands up a fake GitHub API, registers an instance pointing
// at it, and connects it via TestConnection.
func connectedGitHub(t *testing.T, r *integrations.Registry, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/user" {
			w.Write([]byte(`{"login":"student"}`))
			return
		}
		handler(w, req)
	}))
	t.Cleanup(srv.Close)

	inst, err := r.Add(integrations.Config{
		Type:       integrations.TypeGitHub,
		Credential: "ghp_test",
		Endpoint:   srv.URL,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	report, err := r.TestConnection(context.Background(), inst.ID)
	if err != nil || !report.Success {
		t.Fatalf("TestConnection failed: %v %+v", err, report)
	}
}

func TestDispatch_Builtin(t *testing.T) {
	d := New(integrations.NewRegistry(), []schema.Tool{stubTool{name: "stub", out: "hello"}})

	res := d.Dispatch(context.Background(), "stub", nil)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Data != "hello" {
		t.Errorf("expected data hello, got %v", res.Data)
	}
}

func TestDispatch_BuiltinError(t *testing.T) {
	d := New(integrations.NewRegistry(), []schema.Tool{stubTool{name: "stub", err: context.DeadlineExceeded}})

	res := d.Dispatch(context.Background(), "stub", nil)
	if res.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(res.Error, "deadline exceeded") {
		t.Errorf("expected wrapped error, got %q", res.Error)
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := New(integrations.NewRegistry(), nil)

	res := d.Dispatch(context.Background(), "no_such_tool", nil)
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.Error != "Unknown tool no_such_tool" {
		t.Errorf("unexpected error %q", res.Error)
	}
}

func TestDispatch_NoServerConnected(t *testing.T) {
	d := New(integrations.NewRegistry(), nil)

	res := d.Dispatch(context.Background(), "list_courses", nil)
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.Error != "No canvas server connected" {
		t.Errorf("unexpected error %q", res.Error)
	}
}

func TestDispatch_PanicRecovered(t *testing.T) {
	d := New(integrations.NewRegistry(), []schema.Tool{stubTool{name: "stub", panic: true}})

	res := d.Dispatch(context.Background(), "stub", nil)
	if res.Success {
		t.Fatal("expected failure result from panic")
	}
	if !strings.Contains(res.Error, "panicked") {
		t.Errorf("unexpected error %q", res.Error)
	}
}

func TestDispatch_IntegrationTool(t *testing.T) {
	r := integrations.NewRegistry()
	var gotBody map[string]any
	connectedGitHub(t, r, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost || req.URL.Path != "/repos/student/notes/issues" {
			http.NotFound(w, req)
			return
		}
		json.NewDecoder(req.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"number": 42, "title": "Review chapter 3", "html_url": "https://github.com/student/notes/issues/42"}`))
	})

	d := New(r, nil)
	res := d.Dispatch(context.Background(), "create_issue", map[string]any{
		"repo":  "student/notes",
		"title": "Review chapter 3",
		"body":  "Before Friday's quiz",
	})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if gotBody["title"] != "Review chapter 3" {
		t.Errorf("unexpected request body: %v", gotBody)
	}
}

func TestDispatch_IntegrationToolFailure(t *testing.T) {
	r := integrations.NewRegistry()
	connectedGitHub(t, r, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validation Failed"}`))
	})

	d := New(r, nil)
	res := d.Dispatch(context.Background(), "create_issue", map[string]any{"repo": "student/notes", "title": "x"})
	if res.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(res.Error, "422") {
		t.Errorf("expected HTTP status in error, got %q", res.Error)
	}
}

func TestCatalog_BuiltinsFirstSorted(t *testing.T) {
	d := New(integrations.NewRegistry(), []schema.Tool{
		stubTool{name: "zeta"},
		stubTool{name: "alpha"},
	})

	catalog := d.Catalog()
	if len(catalog) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(catalog))
	}
	if catalog[0].Name != "alpha" || catalog[1].Name != "zeta" {
		t.Errorf("expected sorted builtins, got %s, %s", catalog[0].Name, catalog[1].Name)
	}
}

func TestDefinitions_OpenAIFormat(t *testing.T) {
	d := New(integrations.NewRegistry(), []schema.Tool{stubTool{name: "stub"}})

	defs := d.Definitions()
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	if defs[0]["type"] != "function" {
		t.Errorf("expected type function, got %v", defs[0]["type"])
	}
	fn, ok := defs[0]["function"].(map[string]any)
	if !ok || fn["name"] != "stub" {
		t.Errorf("unexpected function block: %v", defs[0]["function"])
	}
}
