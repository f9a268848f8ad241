package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// FlashcardsTool turns question/answer pairs the model has drafted into a
// formatted flashcard deck. Purely local; exists so decks come out in a
// consistent shape regardless of which model produced the pairs.
type FlashcardsTool struct{}

func NewFlashcardsTool() *FlashcardsTool { return &FlashcardsTool{} }

func (t *FlashcardsTool) Name() string { return "create_flashcards" }
func (t *FlashcardsTool) Description() string {
	return "Format question/answer pairs into a numbered flashcard deck."
}
func (t *FlashcardsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"title": {
				"type": "string",
				"description": "Deck title"
			},
			"cards": {
				"type": "array",
				"description": "Question/answer pairs",
				"items": {
					"type": "object",
					"properties": {
						"question": {"type": "string"},
						"answer": {"type": "string"}
					},
					"required": ["question", "answer"]
				}
			}
		},
		"required": ["cards"]
	}`)
}

func (t *FlashcardsTool) Execute(_ context.Context, params map[string]any) (string, error) {
	rawCards, _ := params["cards"].([]any)
	if len(rawCards) == 0 {
		return "Error: cards is required and must not be empty", nil
	}

	title, _ := params["title"].(string)
	if title == "" {
		title = "Flashcards"
	}

	var sb strings.Builder
	sb.WriteString("# " + title + "\n")

	count := 0
	for _, raw := range rawCards {
		card, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		q, _ := card["question"].(string)
		a, _ := card["answer"].(string)
		if q == "" || a == "" {
			continue
		}
		count++
		sb.WriteString(fmt.Sprintf("\n%d. Q: %s\n   A: %s\n", count, q, a))
	}

	if count == 0 {
		return "Error: no valid cards (each needs question and answer)", nil
	}

	out, _ := json.Marshal(map[string]any{
		"title": title,
		"count": count,
		"deck":  sb.String(),
	})
	return string(out), nil
}
