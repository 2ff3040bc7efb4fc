package ports

import "context"

// Chat roles understood by the completion endpoint
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient streams a completion for the conversation so far.
// onDelta is called with each text fragment as it arrives; the full
// reply is returned once the stream ends.
type ChatClient interface {
	StreamChat(ctx context.Context, messages []ChatMessage, onDelta func(string)) (string, error)
}
