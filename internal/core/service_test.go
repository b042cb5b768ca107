package core

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seralo/convo/internal/api"
	"github.com/seralo/convo/internal/eventbus"
	"github.com/seralo/convo/internal/models"
)

func newTestService(t *testing.T, handler http.Handler) (*ChatService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	eb := eventbus.NewEventBus()
	service := NewChatService(api.NewClient(server.URL), eb)
	t.Cleanup(service.Stop)
	return service, server
}

func TestSendCreatesConversationWhenNoneActive(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/conversations/":
			fmt.Fprint(w, `{"id":1,"title":"Conversation 1700000000000"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/conversations/1/messages/":
			fmt.Fprint(w, `{"user_message":{"id":1,"role":"user","content":"hello","conversation_id":1},"assistant_message":{"id":2,"role":"assistant","content":"hi there","conversation_id":1}}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	service.processSend("hello")

	snap := service.state.Snapshot()
	require.Len(t, snap.Conversations, 1)
	require.Equal(t, 1, snap.ActiveID, "the created conversation becomes active")
	require.False(t, snap.Sending)
	require.Empty(t, snap.Banner)

	messages := snap.Conversations[0].Messages
	require.Len(t, messages, 2)
	require.Equal(t, models.RoleUser, messages[0].Role)
	require.Equal(t, "hello", messages[0].Content)
	require.Equal(t, models.RoleAssistant, messages[1].Role)
}

func TestSendAppendsToActiveConversation(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/conversations/1/messages/" {
			fmt.Fprint(w, `{"user_message":{"id":5,"role":"user","content":"hello","conversation_id":1},"assistant_message":{"id":6,"role":"assistant","content":"hi back","conversation_id":1}}`)
			return
		}
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))

	service.state.SetConversations([]models.Conversation{
		{ID: 1, Title: "Conversation 1700000000000", Messages: []models.Message{
			{Role: models.RoleAssistant, Content: "hi"},
		}},
		{ID: 2, Title: "Other", Messages: []models.Message{}},
	})
	token := service.state.BeginSelect()
	require.True(t, service.state.CompleteSelect(token, models.Conversation{
		ID: 1, Title: "Conversation 1700000000000",
		Messages: []models.Message{{Role: models.RoleAssistant, Content: "hi"}},
	}))

	service.processSend("hello")

	snap := service.state.Snapshot()
	require.Len(t, snap.Conversations[0].Messages, 3)
	require.Equal(t, "hello", snap.Conversations[0].Messages[1].Content)
	require.Equal(t, "hi back", snap.Conversations[0].Messages[2].Content)
	require.Empty(t, snap.Conversations[1].Messages, "no other conversation is mutated")
}

func TestSendBlankInputMakesNoRequests(t *testing.T) {
	var requests atomic.Int64
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	service.processSend("   ")
	service.processSend("\t\n")

	require.Zero(t, requests.Load())
	require.False(t, service.state.Snapshot().Sending)
}

func TestSendWhileSendingIsNoOp(t *testing.T) {
	var requests atomic.Int64
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	require.True(t, service.state.BeginSend())
	service.processSend("hello")

	require.Zero(t, requests.Load())
}

func TestSendFailureRaisesBanner(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	service.processSend("hello")

	snap := service.state.Snapshot()
	require.False(t, snap.Sending)
	require.Equal(t, sendFailedBanner, snap.Banner)
	require.Empty(t, snap.Conversations, "a failed create leaves local state unchanged")
}

func TestLoadConversations(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/conversations/":
			fmt.Fprint(w, `[{"id":1,"title":"Welcome Chat"}]`)
		case "/conversations/1/messages/":
			fmt.Fprint(w, `[{"id":1,"role":"assistant","content":"hi","conversation_id":1}]`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))

	service.loadConversations()

	snap := service.state.Snapshot()
	require.Len(t, snap.Conversations, 1)
	require.Equal(t, 0, snap.ActiveID)
	require.Len(t, snap.Conversations[0].Messages, 1)
}

func TestSelectConversationReplacesEntry(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/conversations/1":
			fmt.Fprint(w, `{"id":1,"title":"Welcome Chat"}`)
		case "/conversations/1/messages/":
			fmt.Fprint(w, `[{"id":1,"role":"assistant","content":"hi","conversation_id":1},{"id":2,"role":"user","content":"thanks","conversation_id":1}]`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))

	service.state.SetConversations([]models.Conversation{
		{ID: 1, Title: "Welcome Chat"},
		{ID: 2, Title: "Python Help"},
	})

	service.selectConversation(1)

	require.Eventually(t, func() bool {
		snap := service.state.Snapshot()
		return snap.ActiveID == 1 && len(snap.Conversations[0].Messages) == 2
	}, time.Second, 10*time.Millisecond)

	require.Empty(t, service.state.Snapshot().Conversations[1].Messages)
}

func TestSelectConversationFailureLeavesStateAlone(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	service.state.SetConversations([]models.Conversation{{ID: 1, Title: "Welcome Chat"}})
	service.selectConversation(1)

	// Give the background fetch time to fail
	time.Sleep(50 * time.Millisecond)

	snap := service.state.Snapshot()
	require.Equal(t, 0, snap.ActiveID, "active id is not updated on failure")
	require.Equal(t, "Welcome Chat", snap.Conversations[0].Title)
}

// Selection fetches push state from their own goroutine while the
// event loop pushes from its own; the bus must tolerate that
// (run with -race).
func TestConcurrentSelectionsAndNewChat(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		switch r.URL.Path {
		case "/conversations/1", "/conversations/2":
			fmt.Fprintf(w, `{"id":%c,"title":"Chat"}`, r.URL.Path[len(r.URL.Path)-1])
		default:
			fmt.Fprint(w, `[]`)
		}
	}))

	service.state.SetConversations([]models.Conversation{
		{ID: 1, Title: "Welcome Chat"},
		{ID: 2, Title: "Python Help"},
	})

	for i := 0; i < 20; i++ {
		service.selectConversation(1 + i%2)
		service.handleUIEvent(eventbus.NewChatEvent{})
	}

	// Let the stragglers finish; the race detector flags any
	// unsynchronized bus access.
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, service.state.ActiveID())
}

func TestStopDuringSendDoesNotPanic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, `{"id":1,"title":"Chat"}`)
	}))
	defer server.Close()

	eb := eventbus.NewEventBus()
	service := NewChatService(api.NewClient(server.URL), eb)

	done := make(chan struct{})
	go func() {
		defer close(done)
		service.processSend("hello")
	}()

	// Quit mid-send, the way the TUI shuts down
	time.Sleep(10 * time.Millisecond)
	service.Stop()
	eb.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send never finished after shutdown")
	}
	require.False(t, service.state.Snapshot().Sending)
}

func TestEventLoopHandlesSendEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/conversations/":
			fmt.Fprint(w, `{"id":1,"title":"Conversation 1700000000000"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/conversations/1/messages/":
			fmt.Fprint(w, `{"user_message":{"id":1,"role":"user","content":"hello","conversation_id":1},"assistant_message":{"id":2,"role":"assistant","content":"hi","conversation_id":1}}`)
		}
	}))
	defer server.Close()

	eb := eventbus.NewEventBus()
	service := NewChatService(api.NewClient(server.URL), eb)
	service.Start()
	defer service.Stop()

	require.NoError(t, eb.SendToCore(eventbus.SendMessageEvent{Content: "hello"}))

	require.Eventually(t, func() bool {
		select {
		case event := <-eb.CoreToUI():
			update, ok := event.(eventbus.StateUpdateEvent)
			return ok && update.ActiveID == 1 && len(update.Conversations) == 1
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
