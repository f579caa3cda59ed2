package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

// Platform is the subset of the chat platform used by the event feature.
type Platform interface {
	BotUserID() string

	SendAnnouncement(ctx context.Context, channelID string, a *entities.Announcement) (string, error)
	GetAnnouncement(ctx context.Context, channelID, messageID string) (*entities.Announcement, error)
	EditAnnouncement(ctx context.Context, channelID, messageID string, a *entities.Announcement) error
	SendMessage(ctx context.Context, channelID, content string) (string, error)
	SendDirectMessage(ctx context.Context, userID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	RemoveUserReaction(ctx context.Context, channelID, messageID, emoji, userID string) error
	// ReactionUsers lists every user (bots excluded) reacting with emoji.
	ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]string, error)

	CreateRole(ctx context.Context, name string) (string, error)
	DeleteRole(ctx context.Context, roleID string) error
	AddMemberRole(ctx context.Context, userID, roleID string) error
	RemoveMemberRole(ctx context.Context, userID, roleID string) error
	MemberRoles(ctx context.Context, userID string) ([]string, error)
	// IsPrivileged reports whether the member holds administrator permission.
	IsPrivileged(ctx context.Context, userID string) (bool, error)

	// CreatePrivateChannel creates a text channel under parentID visible only to roleID and the bot.
	CreatePrivateChannel(ctx context.Context, name, parentID, roleID string) (string, error)
	DeleteChannel(ctx context.Context, channelID string) error
	MoveChannel(ctx context.Context, channelID, parentID string) error
	// SyncChannelPermissions copies the parent category's permission overwrites onto the channel.
	SyncChannelPermissions(ctx context.Context, channelID string) error
}
