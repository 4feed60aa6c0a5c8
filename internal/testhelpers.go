package internal

import "time"

// CreateTestConversation creates a conversation with sample data
func CreateTestConversation(id string) *Conversation {
	return &Conversation{
		ID:        id,
		Name:      "Test Conversation",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Messages: []Message{
			{Role: RoleUser, Content: "Hello, how are you?"},
			{Role: RoleAssistant, Content: "I'm doing well, thank you!"},
		},
	}
}

// CreateTestConversationWithMessages creates a conversation with custom messages
func CreateTestConversationWithMessages(id string, messages []Message) *Conversation {
	return &Conversation{
		ID:       id,
		Messages: messages,
	}
}
