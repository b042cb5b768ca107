package components

import (
	"strings"

	"github.com/seralo/convo/internal/models"
	"github.com/seralo/convo/ui/styles"
)

func RenderStatus(m *models.AppModel, width int) string {
	statusContent := m.Status
	if m.Sending {
		statusContent += strings.Repeat(".", m.LoadingDots)
	}

	// Banner errors take over the status bar until the next action
	if m.Banner != "" {
		return styles.BannerStyle(width).Render(statusContent)
	}
	return styles.StatusStyle(width).Render(statusContent)
}
