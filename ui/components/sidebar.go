package components

import (
	"strings"

	"github.com/seralo/convo/internal/models"
	"github.com/seralo/convo/ui/styles"
)

// RenderSidebar lists "new chat" followed by every known conversation
// in arrival order. The cursor row is highlighted; the active
// conversation carries a marker.
func RenderSidebar(m *models.AppModel) string {
	var b strings.Builder

	itemStyle := styles.SidebarItemStyle()
	cursorStyle := styles.SidebarCursorStyle()
	activeStyle := styles.SidebarActiveStyle()

	rows := make([]string, 0, len(m.Conversations)+1)
	rows = append(rows, "+ new chat")
	for _, conv := range m.Conversations {
		rows = append(rows, truncate(conv.Title, styles.SidebarWidth-4))
	}

	for i, row := range rows {
		marker := "  "
		if i > 0 && m.Conversations[i-1].ID == m.ActiveID && m.ActiveID != 0 {
			marker = "* "
		} else if i == 0 && m.ActiveID == 0 {
			marker = "* "
		}

		line := marker + row
		switch {
		case m.Focus == models.FocusSidebar && i == m.Cursor:
			b.WriteString(cursorStyle.Render(line))
		case strings.HasPrefix(marker, "*"):
			b.WriteString(activeStyle.Render(line))
		default:
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return styles.SidebarStyle(m.Height - 1).Render(b.String())
}

// truncate shortens a title to max runes; titles are user text and may
// hold multi-byte characters, so byte slicing is not safe here.
func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
