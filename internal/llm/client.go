package llm

import "context"

// Role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is the provider-agnostic chat message.
type Message struct {
	Role    Role
	Content string
}

// Client abstracts the chat-completion SDKs (OpenAI, Anthropic, and the
// OpenAI-compatible endpoints). One call, one answer; no tool calling.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
