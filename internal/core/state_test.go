package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seralo/convo/internal/models"
)

func seededState() *ChatState {
	state := NewChatState()
	state.SetConversations([]models.Conversation{
		{ID: 1, Title: "Welcome Chat", Messages: []models.Message{
			{Role: models.RoleAssistant, Content: "hi"},
		}},
		{ID: 2, Title: "Python Help", Messages: []models.Message{
			{Role: models.RoleUser, Content: "How do I create a list?"},
			{Role: models.RoleAssistant, Content: "Use square brackets."},
		}},
	})
	return state
}

func TestBeginSendGuardsOverlap(t *testing.T) {
	state := NewChatState()

	require.True(t, state.BeginSend())
	require.False(t, state.BeginSend(), "second send must be a no-op while one is in flight")

	state.FailSend("backend error")
	require.True(t, state.BeginSend(), "send flag must reset after failure")
}

func TestFinishSendNewConversation(t *testing.T) {
	state := seededState()
	require.True(t, state.BeginSend())

	state.FinishSendNewConversation(
		models.Conversation{ID: 3, Title: "Conversation 1700000000000"},
		models.Message{Role: models.RoleUser, Content: "hello"},
		models.Message{Role: models.RoleAssistant, Content: "hi back"},
	)

	snap := state.Snapshot()
	require.Len(t, snap.Conversations, 3)
	require.Equal(t, 3, snap.ActiveID)
	require.False(t, snap.Sending)

	created := snap.Conversations[2]
	require.Equal(t, "Conversation 1700000000000", created.Title)
	require.Len(t, created.Messages, 2)
	require.Equal(t, models.RoleUser, created.Messages[0].Role)
	require.Equal(t, "hello", created.Messages[0].Content)
}

func TestFinishSendExistingOnlyTouchesTarget(t *testing.T) {
	state := seededState()
	require.True(t, state.BeginSend())

	state.FinishSendExisting(2,
		models.Message{Role: models.RoleUser, Content: "Can it hold mixed types?"},
		models.Message{Role: models.RoleAssistant, Content: "Yes."},
	)

	snap := state.Snapshot()
	require.Len(t, snap.Conversations[1].Messages, 4)
	require.Equal(t, "Can it hold mixed types?", snap.Conversations[1].Messages[2].Content)
	require.Equal(t, "Yes.", snap.Conversations[1].Messages[3].Content)

	// The other conversation is untouched
	require.Len(t, snap.Conversations[0].Messages, 1)
	require.False(t, snap.Sending)
}

func TestFailSendKeepsStateAndRaisesBanner(t *testing.T) {
	state := seededState()
	require.True(t, state.BeginSend())

	state.FailSend("backend error, check server logs")

	snap := state.Snapshot()
	require.False(t, snap.Sending)
	require.Equal(t, "backend error, check server logs", snap.Banner)
	require.Len(t, snap.Conversations, 2)
}

func TestCompleteSelectReplacesOnlyTarget(t *testing.T) {
	state := seededState()

	token := state.BeginSelect()
	fresh := models.Conversation{ID: 1, Title: "Welcome Chat", Messages: []models.Message{
		{Role: models.RoleAssistant, Content: "hi"},
		{Role: models.RoleUser, Content: "Great, what should I do first?"},
	}}
	require.True(t, state.CompleteSelect(token, fresh))

	snap := state.Snapshot()
	require.Equal(t, 1, snap.ActiveID)
	require.Len(t, snap.Conversations[0].Messages, 2)
	require.Len(t, snap.Conversations[1].Messages, 2, "other entries must be untouched")
}

func TestCompleteSelectDiscardsStaleToken(t *testing.T) {
	state := seededState()

	stale := state.BeginSelect()
	current := state.BeginSelect()

	// The response for the older selection lands last; it must lose.
	require.True(t, state.CompleteSelect(current, models.Conversation{ID: 2, Title: "Python Help"}))
	require.False(t, state.CompleteSelect(stale, models.Conversation{ID: 1, Title: "Welcome Chat"}))

	require.Equal(t, 2, state.ActiveID())
}

func TestSelectNewChatKeepsConversations(t *testing.T) {
	state := seededState()
	token := state.BeginSelect()
	require.True(t, state.CompleteSelect(token, models.Conversation{ID: 1, Title: "Welcome Chat"}))

	state.SelectNewChat()

	snap := state.Snapshot()
	require.Equal(t, 0, snap.ActiveID)
	require.Len(t, snap.Conversations, 2)
}

func TestSelectNewChatInvalidatesInFlightSelect(t *testing.T) {
	state := seededState()

	token := state.BeginSelect()
	state.SelectNewChat()

	require.False(t, state.CompleteSelect(token, models.Conversation{ID: 1}))
	require.Equal(t, 0, state.ActiveID())
}

func TestSetConversationsClearsDanglingActive(t *testing.T) {
	state := seededState()
	token := state.BeginSelect()
	require.True(t, state.CompleteSelect(token, models.Conversation{ID: 2, Title: "Python Help"}))

	state.SetConversations([]models.Conversation{{ID: 5, Title: "Fresh"}})

	require.Equal(t, 0, state.ActiveID(), "active id must always reference a present conversation")
}
