package agent

import "github.com/studypilot/studypilot/internal/schema"

const systemPrompt = `You are StudyPilot, an educational assistant. You help students
understand their coursework, keep track of assignments and grades, organise notes,
and manage project work. Use the available tools when the student's question needs
live data from their connected services; answer directly when it does not. Be
accurate about dates and grades — never invent data a tool did not return.`

const socraticHint = `Dialogue mode: Socratic. Guide the student to the answer with
questions and hints; do not hand over complete solutions to graded work.`

const assignmentHint = `Dialogue mode: assignment help. Explain concepts and work
through examples step by step, citing the relevant course material when available.`

// BuildConversation assembles the initial conversation for one request: the
// fixed system instruction, an optional mode hint, the caller-supplied prior
// history, and the new user message.
func BuildConversation(history []schema.Message, message, mode string) schema.Messages {
	conv := schema.NewMessages()

	prompt := systemPrompt
	switch mode {
	case "socratic":
		prompt += "\n\n" + socraticHint
	case "assignment":
		prompt += "\n\n" + assignmentHint
	}
	conv.AddSystem(prompt)

	for _, msg := range history {
		// The system turn is rebuilt each request; skip any stale one.
		if msg.Role == "system" {
			continue
		}
		conv.Messages = append(conv.Messages, msg)
	}

	conv.AddUser(message)
	return conv
}
