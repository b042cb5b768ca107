package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seralo/convo/internal/eventbus"
	"github.com/seralo/convo/internal/update"
)

// EventDispatcher handles routing events between core and UI
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ListenForUIEvents returns a command that waits for the next core
// event and delivers it to the bubbletea loop.
func (ed *EventDispatcher) ListenForUIEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ed.ctx.Done():
			return nil
		case event, ok := <-ed.eventBus.CoreToUI():
			if !ok {
				return nil
			}
			return update.CoreEventMsg{Event: event}
		}
	}
}

func (ed *EventDispatcher) Stop() {
	ed.cancel()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
