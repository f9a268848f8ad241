// Package agent drives the conversation state machine: it alternates between
// asking the model for a turn and executing any tool calls the model
// requested, until the model answers with no further tool requests.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studypilot/studypilot/internal/dispatch"
	"github.com/studypilot/studypilot/internal/schema"
	"github.com/studypilot/studypilot/internal/shared/llmutils"
)

// ErrMaxIterations is returned when the loop hits the iteration bound without
// the model producing a final answer. The partial conversation is still
// returned alongside it.
var ErrMaxIterations = errors.New("maximum tool iterations exceeded")

// Outcome is the result of one completed loop run.
type Outcome struct {
	// Answer is the content of the most recent assistant turn.
	Answer string
	// Conversation is the full turn list, for the caller to persist as history.
	Conversation schema.Messages
	// ToolsUsed lists the tool names invoked during the run, in order.
	ToolsUsed []string
}

// Loop executes the LLM ↔ tool iteration loop for a single request.
// It holds no per-request state; conversations are caller-owned and passed by
// value into Run.
type Loop struct {
	provider   schema.LLMProvider
	dispatcher *dispatch.Dispatcher
	settings   schema.Settings
}

func New(provider schema.LLMProvider, dispatcher *dispatch.Dispatcher, settings schema.Settings) *Loop {
	return &Loop{provider: provider, dispatcher: dispatcher, settings: settings}
}

// Run drives the conversation to completion.
//
// Each iteration assembles the tool catalog fresh from the dispatcher (the
// set of connected integrations can change between requests), sends the
// conversation-so-far to the model, and either terminates (no tool calls) or
// executes every requested tool sequentially, appending one tool turn per
// call tagged with the originating call id.
//
// A model-call failure is fatal and returned as an error. Tool failures are
// not: they become tool-turn content the model reacts to conversationally.
func (l *Loop) Run(ctx context.Context, conversation schema.Messages) (Outcome, error) {
	conv := conversation.Clone()
	var toolsUsed []string

	for i := 0; i < l.settings.MaxToolIterations; i++ {
		resp, err := l.provider.Chat(ctx,
			conv,
			l.dispatcher.Definitions(),
			schema.NewChatOptions(l.settings.Model, l.settings.MaxTokens, l.settings.Temperature),
		)
		if err != nil {
			return Outcome{Conversation: conv, ToolsUsed: toolsUsed}, fmt.Errorf("model call: %w", err)
		}

		var toolCalls []schema.ToolCall
		for _, tc := range resp.ToolCalls {
			toolCalls = append(toolCalls, schema.ToolCall{ID: tc.Id, Name: tc.Name, Arguments: tc.Arguments})
		}
		conv.AddAssistant(llmutils.StripThink(resp.Content), toolCalls)

		if len(resp.ToolCalls) == 0 {
			// Terminal response.
			return Outcome{
				Answer:       conv.LastAssistant(),
				Conversation: conv,
				ToolsUsed:    toolsUsed,
			}, nil
		}

		slog.Info("Executing tools", "iteration", i+1, "calls", llmutils.ToolHint(resp.ToolCalls))

		for _, tc := range resp.ToolCalls {
			toolsUsed = append(toolsUsed, tc.Name)
			argsJSON, _ := json.Marshal(tc.Arguments)

			slog.Info("Tool call", "name", tc.Name, "args", llmutils.Truncate(string(argsJSON), 200))

			result := l.dispatcher.Dispatch(ctx, tc.Name, tc.Arguments)
			conv.AddToolResult(tc.Id, tc.Name, result.JSON())
		}
	}

	return Outcome{
		Answer:       conv.LastAssistant(),
		Conversation: conv,
		ToolsUsed:    toolsUsed,
	}, ErrMaxIterations
}
