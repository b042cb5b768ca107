package components

import (
	"strings"

	"github.com/seralo/convo/internal/models"
	"github.com/seralo/convo/internal/utils"
	"github.com/seralo/convo/ui/styles"
)

// RenderMessages renders the active conversation's transcript, or the
// empty-state hints when "new chat" is selected.
func RenderMessages(conv *models.Conversation) string {
	if conv == nil {
		return renderEmptyState()
	}

	var b strings.Builder
	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()

	for _, msg := range conv.Messages {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.RoleAssistant:
			b.WriteString(assistantStyle.Render("Assistant: "+utils.RenderMarkdown(msg.Content)) + "\n\n")
		}
	}

	return b.String()
}

func renderEmptyState() string {
	hint := styles.HintStyle()
	var b strings.Builder
	b.WriteString(hint.Render("New chat - your first message starts a conversation") + "\n\n")
	b.WriteString(hint.Render("Controls: Enter to send, Tab to switch panes, Ctrl+N for new chat, Ctrl+C to exit") + "\n\n")
	return b.String()
}
