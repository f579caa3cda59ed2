package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
	pkgdiscord "eventbot/pkg/discord"
)

// reactionPageSize is the maximum page size of the reactions endpoint.
const reactionPageSize = 100

var _ output.Platform = (*Platform)(nil)

// Platform implements output.Platform on the Discord REST API for a single guild.
type Platform struct {
	session *discordgo.Session
	guildID string
}

func NewPlatform(session *discordgo.Session, guildID string) *Platform {
	return &Platform{session: session, guildID: guildID}
}

func (p *Platform) BotUserID() string {
	if p.session.State == nil || p.session.State.User == nil {
		return ""
	}
	return p.session.State.User.ID
}

func (p *Platform) SendAnnouncement(ctx context.Context, channelID string, a *entities.Announcement) (string, error) {
	msg, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{pkgdiscord.ToMessageEmbed(a)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send announcement: %w", err)
	}
	return msg.ID, nil
}

func (p *Platform) GetAnnouncement(ctx context.Context, channelID, messageID string) (*entities.Announcement, error) {
	msg, err := p.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	if len(msg.Embeds) == 0 || msg.Embeds[0] == nil {
		return nil, errors.New("get announcement: message has no embed")
	}
	return pkgdiscord.FromMessageEmbed(msg.Embeds[0]), nil
}

func (p *Platform) EditAnnouncement(ctx context.Context, channelID, messageID string, a *entities.Announcement) error {
	embeds := []*discordgo.MessageEmbed{pkgdiscord.ToMessageEmbed(a)}
	if _, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
		Embeds:  &embeds,
	}, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit announcement: %w", err)
	}
	return nil
}

func (p *Platform) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	msg, err := p.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return msg.ID, nil
}

func (p *Platform) SendDirectMessage(ctx context.Context, userID, content string) error {
	ch, err := p.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	if _, err := p.session.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	return nil
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (p *Platform) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := p.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add reaction %s: %w", emoji, err)
	}
	return nil
}

func (p *Platform) RemoveUserReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	if err := p.session.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("remove reaction %s: %w", emoji, err)
	}
	return nil
}

// ReactionUsers pages through every user who reacted with emoji, bots excluded.
func (p *Platform) ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]string, error) {
	var (
		ids     []string
		afterID string
	)
	for {
		users, err := p.session.MessageReactions(channelID, messageID, emoji, reactionPageSize, "", afterID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list reactions %s: %w", emoji, err)
		}
		for _, u := range users {
			if u == nil || u.Bot {
				continue
			}
			ids = append(ids, u.ID)
		}
		if len(users) < reactionPageSize {
			return ids, nil
		}
		afterID = users[len(users)-1].ID
	}
}

func (p *Platform) CreateRole(ctx context.Context, name string) (string, error) {
	mentionable := false
	role, err := p.session.GuildRoleCreate(p.guildID, &discordgo.RoleParams{
		Name:        name,
		Mentionable: &mentionable,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("create role: %w", err)
	}
	return role.ID, nil
}

func (p *Platform) DeleteRole(ctx context.Context, roleID string) error {
	if err := p.session.GuildRoleDelete(p.guildID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

func (p *Platform) AddMemberRole(ctx context.Context, userID, roleID string) error {
	if err := p.session.GuildMemberRoleAdd(p.guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add member role: %w", err)
	}
	return nil
}

func (p *Platform) RemoveMemberRole(ctx context.Context, userID, roleID string) error {
	if err := p.session.GuildMemberRoleRemove(p.guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("remove member role: %w", err)
	}
	return nil
}

func (p *Platform) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	member, err := p.member(ctx, userID)
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

// IsPrivileged reports whether the member is the guild owner or holds a role with the
// administrator permission.
func (p *Platform) IsPrivileged(ctx context.Context, userID string) (bool, error) {
	guild, err := p.guild(ctx)
	if err != nil {
		return false, err
	}
	if guild.OwnerID == userID {
		return true, nil
	}
	member, err := p.member(ctx, userID)
	if err != nil {
		return false, err
	}
	roles := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, r := range guild.Roles {
		roles[r.ID] = r
	}
	perms := int64(0)
	if everyone, ok := roles[p.guildID]; ok {
		perms |= everyone.Permissions
	}
	for _, id := range member.Roles {
		if r, ok := roles[id]; ok {
			perms |= r.Permissions
		}
	}
	return perms&discordgo.PermissionAdministrator != 0, nil
}

// CreatePrivateChannel creates a text channel under parentID visible only to roleID and the bot.
func (p *Platform) CreatePrivateChannel(ctx context.Context, name, parentID, roleID string) (string, error) {
	overwrites := []*discordgo.PermissionOverwrite{
		{ID: p.guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: roleID, Type: discordgo.PermissionOverwriteTypeRole, Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages},
	}
	if botID := p.BotUserID(); botID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		})
	}
	ch, err := p.session.GuildChannelCreateComplex(p.guildID, discordgo.GuildChannelCreateData{
		Name:                 sanitizeChannelName(name),
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             parentID,
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("create channel: %w", err)
	}
	return ch.ID, nil
}

func (p *Platform) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := p.session.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

func (p *Platform) MoveChannel(ctx context.Context, channelID, parentID string) error {
	if _, err := p.session.ChannelEdit(channelID, &discordgo.ChannelEdit{ParentID: parentID}, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("move channel: %w", err)
	}
	return nil
}

// SyncChannelPermissions replaces the channel's overwrites with those of its parent category.
func (p *Platform) SyncChannelPermissions(ctx context.Context, channelID string) error {
	ch, err := p.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sync permissions: %w", err)
	}
	if ch.ParentID == "" {
		return nil
	}
	parent, err := p.session.Channel(ch.ParentID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sync permissions: parent: %w", err)
	}
	if _, err := p.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		PermissionOverwrites: parent.PermissionOverwrites,
	}, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sync permissions: %w", err)
	}
	return nil
}

func (p *Platform) member(ctx context.Context, userID string) (*discordgo.Member, error) {
	if p.session.State != nil {
		if m, err := p.session.State.Member(p.guildID, userID); err == nil {
			return m, nil
		}
	}
	m, err := p.session.GuildMember(p.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (p *Platform) guild(ctx context.Context) (*discordgo.Guild, error) {
	if p.session.State != nil {
		if g, err := p.session.State.Guild(p.guildID); err == nil {
			return g, nil
		}
	}
	g, err := p.session.Guild(p.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get guild: %w", err)
	}
	return g, nil
}
