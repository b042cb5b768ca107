package models

// Focus identifies which pane receives keyboard input
type Focus int

const (
	FocusComposer Focus = iota
	FocusSidebar
)

// AppModel represents the UI state - only local UI concerns.
// Conversation data is a snapshot pushed from the core; the UI never
// mutates it directly.
type AppModel struct {
	Conversations []Conversation // Snapshot from core, arrival order
	ActiveID      int            // 0 means "new chat"
	Input         string         // Composer input field
	Status        string         // Status bar text
	Banner        string         // Non-blocking error banner ("" = none)
	Sending       bool           // A send is in flight
	LoadingDots   int            // Animation counter while sending
	Width         int            // Terminal width
	Height        int            // Terminal height
	Focus         Focus          // Which pane handles keys
	Cursor        int            // Sidebar cursor: 0 = "new chat", i+1 = Conversations[i]
}

// ActiveConversation returns the conversation the transcript shows,
// or nil when "new chat" is selected.
func (m *AppModel) ActiveConversation() *Conversation {
	if m.ActiveID == 0 {
		return nil
	}
	for i := range m.Conversations {
		if m.Conversations[i].ID == m.ActiveID {
			return &m.Conversations[i]
		}
	}
	return nil
}
