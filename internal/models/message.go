package models

// Message roles as the backend stores them
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single utterance in a conversation.
// ID and CreatedAt are assigned by the backend and are zero for
// messages that only exist locally (optimistic appends).
type Message struct {
	ID             int    `json:"id,omitempty"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at,omitempty"`
	ConversationID int    `json:"conversation_id,omitempty"`
}
