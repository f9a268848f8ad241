package clients

import (
	"context"
	"fmt"
)

// Canvas wraps the Canvas LMS REST API.
// baseURL is the institution host, e.g. https://school.instructure.com.
type Canvas struct {
	rest restClient
}

func NewCanvas(baseURL, token string) *Canvas {
	return &Canvas{rest: newRESTClient(baseURL, map[string]string{
		"Authorization": "Bearer " + token,
	})}
}

// Profile fetches the authenticated user, used as the connectivity probe.
func (c *Canvas) Profile(ctx context.Context) Result {
	var user map[string]any
	if err := c.rest.getJSON(ctx, "/api/v1/users/self", nil, &user); err != nil {
		return Failf("canvas profile: %v", err)
	}
	return Ok(map[string]any{
		"id":   user["id"],
		"name": user["name"],
	})
}

// Courses lists the user's active courses.
func (c *Canvas) Courses(ctx context.Context) Result {
	var courses []map[string]any
	err := c.rest.getJSON(ctx, "/api/v1/courses", map[string]string{
		"enrollment_state": "active",
		"per_page":         "50",
	}, &courses)
	if err != nil {
		return Failf("canvas courses: %v", err)
	}

	out := make([]map[string]any, 0, len(courses))
	for _, course := range courses {
		out = append(out, map[string]any{
			"id":          course["id"],
			"name":        course["name"],
			"course_code": course["course_code"],
		})
	}
	return Ok(out)
}

// UpcomingAssignments lists upcoming calendar events of type assignment.
func (c *Canvas) UpcomingAssignments(ctx context.Context) Result {
	var events []map[string]any
	if err := c.rest.getJSON(ctx, "/api/v1/users/self/upcoming_events", nil, &events); err != nil {
		return Failf("canvas upcoming assignments: %v", err)
	}

	out := make([]map[string]any, 0, len(events))
	for _, ev := range events {
		if ev["assignment"] == nil {
			continue
		}
		out = append(out, map[string]any{
			"title":  ev["title"],
			"due_at": ev["start_at"],
			"url":    ev["html_url"],
		})
	}
	return Ok(out)
}

// Assignment fetches one assignment by course and assignment id.
func (c *Canvas) Assignment(ctx context.Context, courseID, assignmentID int) Result {
	path := fmt.Sprintf("/api/v1/courses/%d/assignments/%d", courseID, assignmentID)
	var a map[string]any
	if err := c.rest.getJSON(ctx, path, nil, &a); err != nil {
		return Failf("canvas assignment: %v", err)
	}
	return Ok(map[string]any{
		"id":              a["id"],
		"name":            a["name"],
		"description":     a["description"],
		"due_at":          a["due_at"],
		"points_possible": a["points_possible"],
		"url":             a["html_url"],
	})
}

// Announcements lists recent announcements for a course.
func (c *Canvas) Announcements(ctx context.Context, courseID int) Result {
	var items []map[string]any
	err := c.rest.getJSON(ctx, "/api/v1/announcements", map[string]string{
		"context_codes[]": fmt.Sprintf("course_%d", courseID),
	}, &items)
	if err != nil {
		return Failf("canvas announcements: %v", err)
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"title":     item["title"],
			"message":   item["message"],
			"posted_at": item["posted_at"],
		})
	}
	return Ok(out)
}

// Grades returns the enrollment score per active course.
func (c *Canvas) Grades(ctx context.Context) Result {
	var courses []map[string]any
	err := c.rest.getJSON(ctx, "/api/v1/courses", map[string]string{
		"enrollment_state": "active",
		"include[]":        "total_scores",
	}, &courses)
	if err != nil {
		return Failf("canvas grades: %v", err)
	}

	out := make([]map[string]any, 0, len(courses))
	for _, course := range courses {
		entry := map[string]any{
			"course": course["name"],
		}
		if enrollments, ok := course["enrollments"].([]any); ok && len(enrollments) > 0 {
			if e, ok := enrollments[0].(map[string]any); ok {
				entry["score"] = e["computed_current_score"]
				entry["grade"] = e["computed_current_grade"]
			}
		}
		out = append(out, entry)
	}
	return Ok(out)
}
