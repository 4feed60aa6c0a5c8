package internal

import "time"

// Message roles. Only user and assistant turns are persisted; system
// prompts are injected at inference time and never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn within a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Thread is a lightweight summary of a stored conversation, used for
// listing. Name is empty until the conversation has been named.
type Thread struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Conversation is a fully loaded conversation: identity, display name and
// the ordered message sequence from the latest checkpoint.
type Conversation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Messages  []Message `json:"messages"`
}
