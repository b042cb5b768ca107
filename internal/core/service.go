package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seralo/convo/internal/api"
	"github.com/seralo/convo/internal/eventbus"
	"github.com/seralo/convo/internal/models"
)

// sendFailedBanner is shown in the status bar when any part of the
// send flow fails. Details go to the log file.
const sendFailedBanner = "backend error, check server logs"

// ChatService owns the view state and the backend client. It consumes
// UI events from the bus and pushes state snapshots back.
type ChatService struct {
	client *api.Client
	state  *ChatState

	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewChatService(client *api.Client, eb *eventbus.EventBus) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChatService{
		client:   client,
		state:    NewChatState(),
		eventBus: eb,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the core logic in a goroutine
func (cs *ChatService) Start() {
	cs.pushStateToUI()
	go cs.eventLoop()
}

func (cs *ChatService) Stop() {
	cs.cancel()
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.LoadConversationsEvent:
		cs.loadConversations()
	case eventbus.SendMessageEvent:
		cs.processSend(e.Content)
	case eventbus.SelectConversationEvent:
		cs.selectConversation(e.ID)
	case eventbus.NewChatEvent:
		cs.state.SelectNewChat()
		cs.pushStateToUI()
	}
}

// loadConversations performs the initial load. The client degrades to
// an empty list on failure, so there is nothing to surface here.
func (cs *ChatService) loadConversations() {
	conversations := cs.client.ListConversations(cs.ctx)
	cs.state.SetConversations(conversations)
	cs.pushStateToUI()
}

// processSend drives the whole send flow: create the conversation
// first when none is active, then append the message and fold the
// user/assistant exchange back into local state.
func (cs *ChatService) processSend(content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	if !cs.state.BeginSend() {
		return
	}
	cs.pushStateToUI()

	activeID := cs.state.ActiveID()
	if activeID == 0 {
		cs.sendToNewConversation(content)
	} else {
		cs.sendToExisting(activeID, content)
	}
	cs.pushStateToUI()
}

func (cs *ChatService) sendToNewConversation(content string) {
	title := fmt.Sprintf("Conversation %d", time.Now().UnixMilli())
	conv, err := cs.client.CreateConversation(cs.ctx, title)
	if err != nil {
		log.Error().Err(err).Msg("send failed")
		cs.state.FailSend(sendFailedBanner)
		return
	}

	result, err := cs.client.AppendMessage(cs.ctx, conv.ID, content, models.RoleUser)
	if err != nil {
		// The conversation exists server-side but never reached local
		// state; the next initial load will pick it up.
		log.Error().Err(err).Int("conversation_id", conv.ID).Msg("send failed")
		cs.state.FailSend(sendFailedBanner)
		return
	}

	cs.state.FinishSendNewConversation(conv, result.UserMessage, result.AssistantMessage)
}

func (cs *ChatService) sendToExisting(conversationID int, content string) {
	result, err := cs.client.AppendMessage(cs.ctx, conversationID, content, models.RoleUser)
	if err != nil {
		log.Error().Err(err).Int("conversation_id", conversationID).Msg("send failed")
		cs.state.FailSend(sendFailedBanner)
		return
	}

	cs.state.FinishSendExisting(conversationID, result.UserMessage, result.AssistantMessage)
}

// selectConversation fetches the full transcript in the background.
// The token from BeginSelect makes rapid switching safe: a fetch that
// finishes after a newer selection started is discarded.
func (cs *ChatService) selectConversation(conversationID int) {
	token := cs.state.BeginSelect()

	go func() {
		conv, err := cs.client.GetConversation(cs.ctx, conversationID)
		if err != nil {
			// Selection failures are logged only; the active
			// conversation and local entry stay as they were.
			log.Error().Err(err).Int("conversation_id", conversationID).Msg("selecting conversation failed")
			return
		}
		if cs.state.CompleteSelect(token, conv) {
			cs.pushStateToUI()
		}
	}()
}

func (cs *ChatService) pushStateToUI() {
	snap := cs.state.Snapshot()
	err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Conversations: snap.Conversations,
		ActiveID:      snap.ActiveID,
		Sending:       snap.Sending,
		Banner:        snap.Banner,
	})
	if err != nil {
		log.Error().Err(err).Msg("pushing state to UI failed")
	}
}
