package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/seralo/convo/internal/update"
	"github.com/seralo/convo/ui/components"
)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForUIEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForUIEvents())
	}

	eventBus := m.dispatcher.GetEventBus()
	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, eventBus)

	return m, cmd
}

func (m *AppModel) View() string {
	return components.RenderLayout(&m.appModel)
}
