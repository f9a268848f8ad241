package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/studypilot/studypilot/internal/schema"
)

func testMessages() schema.Messages {
	conv := schema.NewMessages()
	conv.AddSystem("You are a study assistant.")
	conv.AddUser("What's due this week?")
	return conv
}

func TestChat_OpenAI_TextResponse(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{
			"choices": [{"message": {"content": "Nothing due."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider("sk-test", srv.URL, "openai/gpt-4o", "openai", nil)
	resp, err := p.Chat(context.Background(), testMessages(), nil, schema.NewChatOptions("openai/gpt-4o", 256, 0.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o" {
		t.Errorf("provider prefix not stripped: %v", gotBody["model"])
	}
	if resp.Content != "Nothing due." {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.HasToolCalls() {
		t.Error("expected no tool calls")
	}
	if resp.Usage["total_tokens"] != 13 {
		t.Errorf("unexpected usage %v", resp.Usage)
	}
}

func TestChat_OpenAI_ToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"choices": [{
				"message": {
					"content": null,
					"tool_calls": [{
						"id": "call_abc",
						"function": {"name": "list_courses", "arguments": "{\"enrollment\":\"active\"}"}
					}]
				},
				"finish_reason": "tool_calls"
			}]
		}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider("sk-test", srv.URL, "openai/gpt-4o", "openai", nil)
	resp, err := p.Chat(context.Background(), testMessages(), nil, schema.NewChatOptions("", 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	tc := resp.ToolCalls[0]
	if tc.Id != "call_abc" || tc.Name != "list_courses" {
		t.Errorf("unexpected tool call %+v", tc)
	}
	if tc.Arguments["enrollment"] != "active" {
		t.Errorf("unexpected arguments %v", tc.Arguments)
	}
	if resp.FinishReason != "tool_calls" {
		t.Errorf("unexpected finish reason %q", resp.FinishReason)
	}
}

func TestChat_OpenAI_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider("sk-test", srv.URL, "openai/gpt-4o", "openai", nil)
	_, err := p.Chat(context.Background(), testMessages(), nil, schema.NewChatOptions("", 0, 0))
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("expected friendly rate limit error, got %v", err)
	}
}

func TestChat_Anthropic_WireFormat(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{
			"content": [
				{"type": "text", "text": "Let me check."},
				{"type": "tool_use", "id": "toolu_1", "name": "get_grades", "input": {}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 20, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider("sk-ant", srv.URL, "anthropic/claude-sonnet-4", "anthropic", nil)

	conv := testMessages()
	tools := []map[string]any{{
		"type": "function",
		"function": map[string]any{
			"name":        "get_grades",
			"description": "Current grades",
			"parameters":  map[string]any{"type": "object"},
		},
	}}
	resp, err := p.Chat(context.Background(), conv, tools, schema.NewChatOptions("anthropic/claude-sonnet-4", 256, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/messages" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotKey != "sk-ant" || gotVersion != "2023-06-01" {
		t.Errorf("unexpected auth headers %q %q", gotKey, gotVersion)
	}

	// System turn moves into the top-level system field.
	if gotBody["system"] != "You are a study assistant." {
		t.Errorf("unexpected system field %v", gotBody["system"])
	}
	msgs, _ := gotBody["messages"].([]any)
	for _, m := range msgs {
		if m.(map[string]any)["role"] == "system" {
			t.Error("system role must not appear in messages")
		}
	}

	// Tools converted to input_schema form.
	sentTools, _ := gotBody["tools"].([]any)
	if len(sentTools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(sentTools))
	}
	tool := sentTools[0].(map[string]any)
	if tool["input_schema"] == nil {
		t.Error("expected input_schema in converted tool")
	}
	if _, ok := tool["parameters"]; ok {
		t.Error("parameters key must not survive conversion")
	}

	if resp.Content != "Let me check." {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Name != "get_grades" {
		t.Errorf("unexpected tool calls %+v", resp.ToolCalls)
	}
	if resp.FinishReason != "tool_calls" {
		t.Errorf("unexpected finish reason %q", resp.FinishReason)
	}
	if resp.Usage["total_tokens"] != 25 {
		t.Errorf("unexpected usage %v", resp.Usage)
	}
}

func TestConvertMessagesToAnthropic_MergesToolResults(t *testing.T) {
	conv := schema.NewMessages()
	conv.AddUser("check two things")
	conv.AddAssistant("", []schema.ToolCall{
		{ID: "t1", Name: "list_courses"},
		{ID: "t2", Name: "get_grades"},
	})
	conv.AddToolResult("t1", "list_courses", `{"success":true}`)
	conv.AddToolResult("t2", "get_grades", `{"success":true}`)

	_, out := convertMessagesToAnthropic(conv)
	// user, assistant, then ONE merged user message with both tool results.
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	last := out[2]
	if last["role"] != "user" {
		t.Errorf("expected merged user message, got role %v", last["role"])
	}
	blocks, _ := last["content"].([]any)
	if len(blocks) != 2 {
		t.Errorf("expected 2 tool_result blocks, got %d", len(blocks))
	}
}

func TestMessageToWireMap_AssistantToolCallOnly(t *testing.T) {
	m := schema.NewAssistantMessage("", []schema.ToolCall{
		{ID: "c1", Name: "list_courses", Arguments: map[string]any{}},
	})
	wire := messageToWireMap(m)
	if wire["content"] != nil {
		t.Errorf("expected nil content, got %v", wire["content"])
	}
	calls, _ := wire["tool_calls"].([]map[string]any)
	if len(calls) != 1 {
		t.Fatalf("expected 1 wire tool call, got %d", len(calls))
	}
	fn, _ := calls[0]["function"].(map[string]any)
	if fn["name"] != "list_courses" {
		t.Errorf("unexpected function %v", fn)
	}
}

func TestStripProviderPrefix(t *testing.T) {
	cases := map[string]string{
		"openai/gpt-4o":                "gpt-4o",
		"anthropic/claude-sonnet-4":    "claude-sonnet-4",
		"openrouter/deepseek/deepseek": "deepseek/deepseek",
		"bare-model":                   "bare-model",
	}
	for in, want := range cases {
		if got := stripProviderPrefix(in); got != want {
			t.Errorf("%s: expected %q, got %q", in, want, got)
		}
	}
}

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		key  string
		want any
	}{
		{"valid", `{"a": 1}`, "a", float64(1)},
		{"empty", "", "", nil},
		{"trailing garbage", `{"a": "b"}}}`, "a", "b"},
	}
	for _, tc := range cases {
		out, err := repairJSON(tc.in)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
			continue
		}
		if tc.key != "" && out[tc.key] != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, out[tc.key])
		}
	}

	if _, err := repairJSON("not json at all"); err == nil {
		t.Error("expected error for unrepairable input")
	}
}
