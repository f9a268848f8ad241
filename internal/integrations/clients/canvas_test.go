package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type capturedRequest struct {
	query url.Values
	auth  string
}

func canvasTestServer(t *testing.T, routes map[string]string) (*Canvas, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.query = r.URL.Query()
		captured.auth = r.Header.Get("Authorization")
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewCanvas(srv.URL, "canvas-token"), captured
}

func TestCanvas_Profile(t *testing.T) {
	c, req := canvasTestServer(t, map[string]string{
		"/api/v1/users/self": `{"id": 7, "name": "Test Student", "email": "hidden@example.com"}`,
	})

	res := c.Profile(context.Background())
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if req.auth != "Bearer canvas-token" {
		t.Errorf("unexpected auth header %q", req.auth)
	}
	data, _ := res.Data.(map[string]any)
	if data["name"] != "Test Student" {
		t.Errorf("unexpected profile data %v", data)
	}
}

func TestCanvas_Courses(t *testing.T) {
	c, req := canvasTestServer(t, map[string]string{
		"/api/v1/courses": `[
			{"id": 1, "name": "Thermodynamics", "course_code": "PHYS 301", "workflow_state": "available"},
			{"id": 2, "name": "Linear Algebra", "course_code": "MATH 220"}
		]`,
	})

	res := c.Courses(context.Background())
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if req.query.Get("enrollment_state") != "active" {
		t.Errorf("missing enrollment_state filter: %s", req.query.Encode())
	}
	courses, _ := res.Data.([]map[string]any)
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	if courses[0]["course_code"] != "PHYS 301" {
		t.Errorf("unexpected course %v", courses[0])
	}
}

func TestCanvas_UpcomingAssignments_FiltersNonAssignments(t *testing.T) {
	c, _ := canvasTestServer(t, map[string]string{
		"/api/v1/users/self/upcoming_events": `[
			{"title": "Problem Set 4", "start_at": "2026-09-04T23:59:00Z", "assignment": {"id": 9}},
			{"title": "Office hours", "start_at": "2026-09-02T15:00:00Z"}
		]`,
	})

	res := c.UpcomingAssignments(context.Background())
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	items, _ := res.Data.([]map[string]any)
	if len(items) != 1 {
		t.Fatalf("expected only the assignment event, got %d", len(items))
	}
	if items[0]["title"] != "Problem Set 4" {
		t.Errorf("unexpected item %v", items[0])
	}
}

func TestCanvas_Grades(t *testing.T) {
	c, req := canvasTestServer(t, map[string]string{
		"/api/v1/courses": `[
			{"name": "Thermodynamics", "enrollments": [{"computed_current_score": 91.5, "computed_current_grade": "A-"}]},
			{"name": "Linear Algebra", "enrollments": []}
		]`,
	})

	res := c.Grades(context.Background())
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if req.query.Get("include[]") != "total_scores" {
		t.Errorf("missing total_scores include: %s", req.query.Encode())
	}
	grades, _ := res.Data.([]map[string]any)
	if len(grades) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(grades))
	}
	if grades[0]["score"] != 91.5 {
		t.Errorf("unexpected score %v", grades[0])
	}
	if _, hasScore := grades[1]["score"]; hasScore {
		t.Error("course without enrollments must not report a score")
	}
}

func TestCanvas_HTTPErrorBecomesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"Invalid access token."}]}`))
	}))
	defer srv.Close()

	c := NewCanvas(srv.URL, "bad-token")
	res := c.Courses(context.Background())
	if res.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(res.Error, "401") {
		t.Errorf("expected status code in error, got %q", res.Error)
	}
}

func TestResult_JSON(t *testing.T) {
	ok := Ok(map[string]any{"n": 1}).JSON()
	if !strings.Contains(ok, `"success":true`) {
		t.Errorf("unexpected ok JSON %q", ok)
	}
	fail := Failf("thing %s", "broke").JSON()
	if !strings.Contains(fail, `"success":false`) || !strings.Contains(fail, "thing broke") {
		t.Errorf("unexpected fail JSON %q", fail)
	}
}
