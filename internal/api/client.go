// Package api is the HTTP client for the conversation backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seralo/convo/internal/models"
)

// Error kinds surfaced to the send flow. Callers match with errors.Is.
var (
	ErrCreateConversation = errors.New("failed to create conversation")
	ErrFetchConversation  = errors.New("failed to fetch conversation")
	ErrAppendMessage      = errors.New("failed to append message")
)

const defaultTimeout = 30 * time.Second

// Client wraps the backend's REST endpoints. It does no retries; a
// failed call is reported once and left to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// AppendResult is the backend's response to appending a user message.
// The backend persists the user message, generates the assistant reply
// and persists that too, then returns both records.
type AppendResult struct {
	UserMessage      models.Message `json:"user_message"`
	AssistantMessage models.Message `json:"assistant_message"`
}

// ListConversations fetches all conversations and their messages.
// It never returns an error: a failed collection fetch degrades to an
// empty list, and a failed message fetch for one conversation degrades
// to that conversation with no messages. Degradations are logged.
func (c *Client) ListConversations(ctx context.Context) []models.Conversation {
	var conversations []models.Conversation
	if err := c.getJSON(ctx, "/conversations/", &conversations); err != nil {
		log.Error().Err(err).Msg("listing conversations failed")
		return []models.Conversation{}
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	for i := range conversations {
		conversations[i].Messages = c.fetchMessages(ctx, conversations[i].ID)
	}
	return conversations
}

// CreateConversation creates a conversation with the given title. The
// returned record carries the backend-assigned id and no messages.
func (c *Client) CreateConversation(ctx context.Context, title string) (models.Conversation, error) {
	var created models.Conversation
	err := c.postJSON(ctx, "/conversations/", map[string]string{"title": title}, &created)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("%w: %w", ErrCreateConversation, err)
	}
	return created, nil
}

// AppendMessage appends a user message to a conversation and returns
// the persisted user message together with the assistant reply.
func (c *Client) AppendMessage(ctx context.Context, conversationID int, content, role string) (AppendResult, error) {
	body := models.Message{
		Content:        content,
		Role:           role,
		ConversationID: conversationID,
	}
	var result AppendResult
	path := fmt.Sprintf("/conversations/%d/messages/", conversationID)
	if err := c.postJSON(ctx, path, body, &result); err != nil {
		return AppendResult{}, fmt.Errorf("%w: %w", ErrAppendMessage, err)
	}
	return result, nil
}

// GetConversation fetches one conversation and its messages. A failed
// message fetch degrades to an empty transcript; a failed conversation
// fetch is an error.
func (c *Client) GetConversation(ctx context.Context, conversationID int) (models.Conversation, error) {
	var conversation models.Conversation
	path := fmt.Sprintf("/conversations/%d", conversationID)
	if err := c.getJSON(ctx, path, &conversation); err != nil {
		return models.Conversation{}, fmt.Errorf("%w: %w", ErrFetchConversation, err)
	}

	conversation.Messages = c.fetchMessages(ctx, conversationID)
	return conversation, nil
}

// fetchMessages returns a conversation's messages, or an empty non-nil
// slice when the fetch fails.
func (c *Client) fetchMessages(ctx context.Context, conversationID int) []models.Message {
	var messages []models.Message
	path := fmt.Sprintf("/conversations/%d/messages/", conversationID)
	if err := c.getJSON(ctx, path, &messages); err != nil {
		log.Warn().Err(err).Int("conversation_id", conversationID).Msg("fetching messages failed")
		return []models.Message{}
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
