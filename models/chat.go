package models

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of the conversation as sent by the client.
// The history is ephemeral: it lives only for the duration of one request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload for /api/assistant/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatEvent types streamed back to the client while the assistant works.
const (
	ChatEventText       = "text"
	ChatEventToolCall   = "tool_call"
	ChatEventToolResult = "tool_result"
	ChatEventDone       = "done"
	ChatEventError      = "error"
)

// ChatEvent is a single streamed assistant event: a text delta, a tool state
// transition, or the terminal done/error marker.
type ChatEvent struct {
	Type   string         `json:"type"`
	Text   string         `json:"text,omitempty"`
	Tool   string         `json:"tool,omitempty"`
	Args   map[string]any `json:"args,omitempty"`
	Result map[string]any `json:"result,omitempty"`
}
