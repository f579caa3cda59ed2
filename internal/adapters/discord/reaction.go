package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
)

func (h *Handler) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil {
		return
	}
	isBot := r.Member != nil && r.Member.User != nil && r.Member.User.Bot
	h.dispatchReaction(r.GuildID, toReaction(r.MessageReaction), isBot || isSelf(s, r.UserID), true)
}

func (h *Handler) HandleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.MessageReaction == nil {
		return
	}
	h.dispatchReaction(r.GuildID, toReaction(r.MessageReaction), isSelf(s, r.UserID), false)
}

// dispatchReaction forwards reactions on the events channel of the configured guild.
func (h *Handler) dispatchReaction(guildID string, reaction entities.Reaction, fromBot, added bool) {
	if fromBot || guildID != h.guildID || reaction.ChannelID != h.eventsChannelID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reactionTimeout)
	defer cancel()

	err := h.eventUseCase.HandleReaction(ctx, reaction, added)
	switch {
	case err == nil:
	case domain.IsKind(err, domain.KindPermission), domain.IsKind(err, domain.KindNotFound):
		h.logger.Debug("reaction denied",
			zap.String("message_id", reaction.MessageID),
			zap.String("user_id", reaction.UserID),
			zap.String("emoji", reaction.Emoji),
			zap.Error(err))
	default:
		h.logger.Error("handle reaction",
			zap.String("message_id", reaction.MessageID),
			zap.String("user_id", reaction.UserID),
			zap.String("emoji", reaction.Emoji),
			zap.Bool("added", added),
			zap.Error(err))
	}
}

// HandleMemberRemove drops a departed member from every event they joined.
func (h *Handler) HandleMemberRemove(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.Member == nil || m.User == nil || m.GuildID != h.guildID {
		return
	}
	h.removeMember(m.User.ID)
}

func (h *Handler) removeMember(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), reactionTimeout)
	defer cancel()

	if err := h.eventUseCase.RemoveMember(ctx, userID); err != nil {
		h.logger.Error("remove departed member", zap.String("user_id", userID), zap.Error(err))
	}
}

// HandleReady reloads the reminder table once the gateway session is up.
func (h *Handler) HandleReady(_ *discordgo.Session, r *discordgo.Ready) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := h.reminderUseCase.LoadReminders(ctx); err != nil {
		h.logger.Error("load reminders", zap.Error(err))
		return
	}
	if r.User != nil {
		h.logger.Info("bot ready", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
	}
}

func toReaction(r *discordgo.MessageReaction) entities.Reaction {
	return entities.Reaction{
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.Name,
	}
}

func isSelf(s *discordgo.Session, userID string) bool {
	return s != nil && s.State != nil && s.State.User != nil && s.State.User.ID == userID
}
