package components

import (
	"github.com/seralo/convo/internal/models"
	"github.com/seralo/convo/ui/styles"
)

func RenderInput(m *models.AppModel, width int) string {
	if m.Focus == models.FocusComposer {
		return styles.InputStyle(width).Render(m.Input + "█")
	}
	return styles.InputBlurredStyle(width).Render(m.Input)
}
