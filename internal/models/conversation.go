package models

// Conversation is a backend-owned thread of messages. Messages are kept
// in insertion order, which the backend guarantees to be chronological.
type Conversation struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	CreatedAt string    `json:"created_at,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
}
