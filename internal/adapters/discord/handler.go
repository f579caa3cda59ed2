package discord

import (
	"time"

	"go.uber.org/zap"

	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

const (
	commandTimeout  = 2 * time.Minute
	reactionTimeout = time.Minute
	startupTimeout  = 30 * time.Second
)

// Handler translates gateway events into use-case calls.
type Handler struct {
	eventUseCase    input.EventUseCase
	reminderUseCase input.ReminderUseCase
	translator      output.T
	logger          *zap.Logger

	guildID         string
	eventsChannelID string
	location        *time.Location
	locale          string
}

// NewHandler creates a Handler.
func NewHandler(
	eventUseCase input.EventUseCase,
	reminderUseCase input.ReminderUseCase,
	translator output.T,
	logger *zap.Logger,
	guildID, eventsChannelID string,
	location *time.Location,
	locale string,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		eventUseCase:    eventUseCase,
		reminderUseCase: reminderUseCase,
		translator:      translator,
		logger:          logger,
		guildID:         guildID,
		eventsChannelID: eventsChannelID,
		location:        location,
		locale:          locale,
	}
}

// translate renders key in the interaction locale, falling back to the guild locale.
func (h *Handler) translate(locale, key string, data map[string]any) string {
	if locale == "" {
		locale = h.locale
	}
	return h.translator.T(locale, key, data)
}
