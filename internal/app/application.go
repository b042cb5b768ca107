package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/seralo/convo/internal/api"
	"github.com/seralo/convo/internal/config"
	"github.com/seralo/convo/internal/core"
	"github.com/seralo/convo/internal/dispatcher"
	"github.com/seralo/convo/internal/eventbus"
	"github.com/seralo/convo/internal/models"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	eb := eventbus.NewEventBus()
	disp := dispatcher.NewEventDispatcher(eb)

	client := api.NewClient(cfg.GetBackendURL())
	chatService := core.NewChatService(client, eb)

	model := &AppModel{
		appModel:   createInitialAppModel(cfg),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	// Kick off the initial conversation load; a failure degrades to an
	// empty sidebar rather than an error.
	if err := app.eventBus.SendToCore(eventbus.LoadConversationsEvent{}); err != nil {
		log.Error().Err(err).Msg("requesting initial load failed")
	}

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(cfg *config.Config) models.AppModel {
	return models.AppModel{
		Conversations: make([]models.Conversation, 0),
		Status:        "Ready - " + cfg.GetBackendURL(),
		Focus:         models.FocusComposer,
	}
}
