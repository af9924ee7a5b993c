package ai

import (
	"context"

	"stayhaven/models"
)

// ToolCall is a structured tool invocation emitted by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult is the structured outcome of one tool execution, fed back to the
// model as a function response.
type ToolResult struct {
	Name     string
	Response map[string]any
}

// ModelReply is everything one model turn produced: the streamed text (also
// delivered incrementally via the onDelta callback) and any tool calls.
type ModelReply struct {
	Text  string
	Calls []ToolCall
}

// ModelSession is one conversation with a streaming tool-calling model.
// Implementations own the message history accumulated across sends.
type ModelSession interface {
	SendText(ctx context.Context, text string, onDelta func(string)) (*ModelReply, error)
	SendToolResults(ctx context.Context, results []ToolResult, onDelta func(string)) (*ModelReply, error)
}

// ChatModel abstracts the language model vendor. The orchestrator is written
// against this contract only.
type ChatModel interface {
	NewSession(ctx context.Context, history []models.ChatMessage) (ModelSession, error)
}
