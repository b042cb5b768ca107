package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/seralo/convo/internal/models"
	"github.com/seralo/convo/ui/styles"
)

// RenderLayout composes the full screen: sidebar on the left,
// transcript + composer + status bar on the right.
func RenderLayout(m *models.AppModel) string {
	mainWidth := m.Width - styles.SidebarWidth - 1
	if mainWidth < 20 {
		mainWidth = 20
	}

	transcript := RenderMessages(m.ActiveConversation())
	transcriptHeight := m.Height - 6
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}

	main := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Width(mainWidth).Height(transcriptHeight).Render(transcript),
		RenderInput(m, mainWidth),
		RenderStatus(m, mainWidth),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, RenderSidebar(m), main)
}
