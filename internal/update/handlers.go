package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seralo/convo/internal/eventbus"
	"github.com/seralo/convo/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "tab":
		if appModel.Focus == models.FocusComposer {
			appModel.Focus = models.FocusSidebar
		} else {
			appModel.Focus = models.FocusComposer
		}
	case "ctrl+n":
		appModel.Cursor = 0
		sendToCore(appModel, eb, eventbus.NewChatEvent{})
	case "up":
		if appModel.Focus == models.FocusSidebar && appModel.Cursor > 0 {
			appModel.Cursor--
		}
	case "down":
		if appModel.Focus == models.FocusSidebar && appModel.Cursor < len(appModel.Conversations) {
			appModel.Cursor++
		}
	case "enter":
		if appModel.Focus == models.FocusSidebar {
			handleSidebarSelect(appModel, eb)
			return nil
		}
		handleSubmit(appModel, eb)
	case "backspace":
		if appModel.Focus == models.FocusComposer && len(appModel.Input) > 0 {
			appModel.Input = appModel.Input[:len(appModel.Input)-1]
		}
	case "q":
		// Quit from the sidebar; in the composer "q" is just text
		if appModel.Focus == models.FocusSidebar {
			return tea.Quit
		}
		appModel.Input += "q"
	default:
		if appModel.Focus == models.FocusComposer && keyMsg.Type == tea.KeyRunes {
			appModel.Input += string(keyMsg.Runes)
		} else if appModel.Focus == models.FocusComposer && keyMsg.Type == tea.KeySpace {
			appModel.Input += " "
		}
	}
	return nil
}

// handleSubmit dispatches a send. Blank input and overlapping sends
// are no-ops: no event reaches the core and nothing changes.
func handleSubmit(appModel *models.AppModel, eb *eventbus.EventBus) {
	if strings.TrimSpace(appModel.Input) == "" || appModel.Sending {
		return
	}

	if sendToCore(appModel, eb, eventbus.SendMessageEvent{Content: appModel.Input}) {
		// Input clears at dispatch, win or lose
		appModel.Input = ""
	}
}

func handleSidebarSelect(appModel *models.AppModel, eb *eventbus.EventBus) {
	if appModel.Cursor == 0 {
		sendToCore(appModel, eb, eventbus.NewChatEvent{})
		return
	}
	if appModel.Cursor-1 < len(appModel.Conversations) {
		id := appModel.Conversations[appModel.Cursor-1].ID
		sendToCore(appModel, eb, eventbus.SelectConversationEvent{ID: id})
	}
}

func sendToCore(appModel *models.AppModel, eb *eventbus.EventBus, event eventbus.UIEvent) bool {
	if err := eb.SendToCore(event); err != nil {
		appModel.Status = "Error sending event: " + err.Error()
		return false
	}
	return true
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		appModel.Conversations = event.Conversations
		appModel.ActiveID = event.ActiveID
		appModel.Sending = event.Sending
		appModel.Banner = event.Banner

		if event.Banner != "" {
			appModel.Status = event.Banner
		} else if event.Sending {
			appModel.Status = "Sending"
		} else {
			appModel.Status = "Ready"
		}

		// The set may have shrunk since the cursor last moved
		if appModel.Cursor > len(appModel.Conversations) {
			appModel.Cursor = len(appModel.Conversations)
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Sending {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
