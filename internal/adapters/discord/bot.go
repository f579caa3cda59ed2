package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessageReactions | discordgo.IntentsGuildMembers

// NewSession creates an unopened gateway session for a bot token.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = intents
	s.StateEnabled = true
	return s, nil
}

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	guildID string
	logger  *zap.Logger
}

func NewBot(session *discordgo.Session, handler *Handler, guildID string, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	bot := &Bot{
		session: session,
		handler: handler,
		guildID: guildID,
		logger:  logger,
	}
	bot.setupHandlers()
	return bot
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handler.HandleReady)
	b.session.AddHandler(b.handler.HandleReactionAdd)
	b.session.AddHandler(b.handler.HandleReactionRemove)
	b.session.AddHandler(b.handler.HandleMemberRemove)
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand || i.GuildID != b.guildID {
		return
	}
	if i.ApplicationCommandData().Name == commandCreateEvent {
		b.handler.handleCreateEvent(s, i)
	}
}

// Run opens the gateway, registers the guild commands and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			b.logger.Warn("close discord session", zap.Error(err))
		}
	}()

	appID := b.session.State.User.ID
	if _, err := b.session.ApplicationCommandCreate(appID, b.guildID, createEventCommand(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("register /%s: %w", commandCreateEvent, err)
	}

	b.logger.Info("bot online", zap.String("guild_id", b.guildID))
	<-ctx.Done()
	b.logger.Info("bot shutting down")
	return nil
}
