package core

import (
	"sync"

	"github.com/seralo/convo/internal/models"
)

// ChatState is the single source of truth for client-side view state:
// the locally-known conversations (arrival order), the active
// conversation id (0 = new chat), and the in-flight send flag.
// Every transition holds the mutex, so the UI only ever observes
// consistent snapshots.
type ChatState struct {
	mu            sync.RWMutex
	conversations []models.Conversation
	index         map[int]int // conversation id -> position
	activeID      int
	sending       bool
	banner        string
	selectSeq     uint64 // bumped per selection, guards stale fetches
}

func NewChatState() *ChatState {
	return &ChatState{
		conversations: make([]models.Conversation, 0),
		index:         make(map[int]int),
	}
}

// Snapshot is an immutable copy of the state for rendering.
type Snapshot struct {
	Conversations []models.Conversation
	ActiveID      int
	Sending       bool
	Banner        string
}

func (cs *ChatState) Snapshot() Snapshot {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	conversations := make([]models.Conversation, len(cs.conversations))
	copy(conversations, cs.conversations)
	return Snapshot{
		Conversations: conversations,
		ActiveID:      cs.activeID,
		Sending:       cs.sending,
		Banner:        cs.banner,
	}
}

// SetConversations replaces the conversation set with the initial load
// result, preserving arrival order.
func (cs *ChatState) SetConversations(conversations []models.Conversation) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.conversations = conversations
	cs.index = make(map[int]int, len(conversations))
	for i, conv := range conversations {
		cs.index[conv.ID] = i
	}
	if _, ok := cs.index[cs.activeID]; cs.activeID != 0 && !ok {
		cs.activeID = 0
	}
}

// BeginSend marks a send in flight. It returns false when a send is
// already in flight; the caller must treat that as a no-op.
func (cs *ChatState) BeginSend() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.sending {
		return false
	}
	cs.sending = true
	cs.banner = ""
	return true
}

// ActiveID returns the current active conversation id (0 = new chat).
func (cs *ChatState) ActiveID() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.activeID
}

// FinishSendNewConversation records a send that created a conversation:
// the conversation joins the set with the exchanged messages attached
// and becomes active.
func (cs *ChatState) FinishSendNewConversation(conv models.Conversation, messages ...models.Message) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	conv.Messages = append([]models.Message{}, messages...)
	cs.index[conv.ID] = len(cs.conversations)
	cs.conversations = append(cs.conversations, conv)
	cs.activeID = conv.ID
	cs.sending = false
}

// FinishSendExisting appends the exchanged messages to one
// conversation, leaving every other conversation untouched.
func (cs *ChatState) FinishSendExisting(conversationID int, messages ...models.Message) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if i, ok := cs.index[conversationID]; ok {
		cs.conversations[i].Messages = append(cs.conversations[i].Messages, messages...)
	}
	cs.sending = false
}

// FailSend clears the send flag and raises the error banner. Messages
// already appended optimistically are kept; the backend may or may not
// have persisted them, and the transcript reflects what the user saw.
func (cs *ChatState) FailSend(banner string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.sending = false
	cs.banner = banner
}

// BeginSelect starts a conversation selection and returns its token.
// Only the most recent token may complete; earlier in-flight fetches
// become stale.
func (cs *ChatState) BeginSelect() uint64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.selectSeq++
	return cs.selectSeq
}

// CompleteSelect applies a fetched conversation if the token is still
// current. A stale token leaves the state untouched and returns false.
// Only the selected conversation's entry is replaced.
func (cs *ChatState) CompleteSelect(token uint64, conv models.Conversation) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if token != cs.selectSeq {
		return false
	}

	if i, ok := cs.index[conv.ID]; ok {
		cs.conversations[i] = conv
	} else {
		cs.index[conv.ID] = len(cs.conversations)
		cs.conversations = append(cs.conversations, conv)
	}
	cs.activeID = conv.ID
	cs.banner = ""
	return true
}

// SelectNewChat clears the active conversation. The conversation set
// is untouched; the next send will create a conversation server-side.
func (cs *ChatState) SelectNewChat() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.activeID = 0
	cs.selectSeq++ // in-flight selection fetches are now stale
}

// SetBanner raises a non-blocking error banner.
func (cs *ChatState) SetBanner(text string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.banner = text
}

// ClearBanner dismisses the error banner.
func (cs *ChatState) ClearBanner() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.banner = ""
}
