package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/studypilot/studypilot/internal/agent"
	"github.com/studypilot/studypilot/internal/integrations"
	"github.com/studypilot/studypilot/internal/schema"
)

// chatTimeout bounds one full agent run, tool executions included.
const chatTimeout = 5 * time.Minute

type wireToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// wireMessage is the JSON shape of one conversation turn. Clients echo the
// returned conversation back verbatim as history on the next request.
type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"toolCalls,omitempty"`
	ToolCallID string         `json:"toolCallId,omitempty"`
	ToolName   string         `json:"toolName,omitempty"`
}

func toWire(msgs []schema.Message) []wireMessage {
	out := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		wm := wireMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			ToolName:   m.ToolName,
		}
		for _, tc := range m.ToolCalls {
			wm.ToolCalls = append(wm.ToolCalls, wireToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
		}
		out = append(out, wm)
	}
	return out
}

func fromWire(msgs []wireMessage) []schema.Message {
	out := make([]schema.Message, 0, len(msgs))
	for _, wm := range msgs {
		m := schema.Message{
			Role:       wm.Role,
			Content:    wm.Content,
			ToolCallID: wm.ToolCallID,
			ToolName:   wm.ToolName,
		}
		for _, tc := range wm.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, schema.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
		}
		out = append(out, m)
	}
	return out
}

type chatRequest struct {
	Message string        `json:"message"`
	Mode    string        `json:"mode,omitempty"`
	History []wireMessage `json:"history,omitempty"`
}

type chatResponse struct {
	Reply        string        `json:"reply"`
	ToolsUsed    []string      `json:"toolsUsed,omitempty"`
	Conversation []wireMessage `json:"conversation"`
	Incomplete   bool          `json:"incomplete,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	conv := agent.BuildConversation(fromWire(req.History), req.Message, req.Mode)
	outcome, err := s.loop.Run(ctx, conv)

	resp := chatResponse{
		Reply:        outcome.Answer,
		ToolsUsed:    outcome.ToolsUsed,
		Conversation: toWire(outcome.Conversation.Messages),
	}

	switch {
	case errors.Is(err, agent.ErrMaxIterations):
		// Not a normal answer: the run was cut off at the iteration bound.
		// The partial conversation is still returned for the client to keep.
		resp.Incomplete = true
		writeJSON(w, http.StatusOK, resp)
	case err != nil:
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Chat failed: %v", err))
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.dispatcher.Catalog()})
}

type integrationRequest struct {
	Type       string            `json:"type"`
	Name       string            `json:"name,omitempty"`
	Credential string            `json:"credential,omitempty"`
	Endpoint   string            `json:"endpoint,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

func (s *Server) handleListIntegrations(w http.ResponseWriter, _ *http.Request) {
	list := s.registry.List()
	out := make([]map[string]any, 0, len(list))
	for _, inst := range list {
		out = append(out, inst.Projection())
	}
	writeJSON(w, http.StatusOK, map[string]any{"integrations": out})
}

func (s *Server) handleAddIntegration(w http.ResponseWriter, r *http.Request) {
	var req integrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inst, err := s.registry.Add(integrations.Config{
		Type:       integrations.Type(req.Type),
		Name:       req.Name,
		Credential: req.Credential,
		Endpoint:   req.Endpoint,
		Extra:      req.Extra,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, inst.Projection())
}

func (s *Server) handleGetIntegration(w http.ResponseWriter, r *http.Request) {
	inst, err := s.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inst.Projection())
}

// integrationPatch distinguishes absent fields from empty ones so a PATCH
// only touches what it names.
type integrationPatch struct {
	Name       *string           `json:"name,omitempty"`
	Credential *string           `json:"credential,omitempty"`
	Endpoint   *string           `json:"endpoint,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

func (s *Server) handleUpdateIntegration(w http.ResponseWriter, r *http.Request) {
	var req integrationPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inst, err := s.registry.Update(mux.Vars(r)["id"], integrations.Patch{
		Name:       req.Name,
		Credential: req.Credential,
		Endpoint:   req.Endpoint,
		Extra:      req.Extra,
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inst.Projection())
}

func (s *Server) handleDeleteIntegration(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleTestIntegration(w http.ResponseWriter, r *http.Request) {
	report, err := s.registry.TestConnection(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Stats())
}
