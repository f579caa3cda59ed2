package application

import (
	"strings"

	"eventbot/internal/domain/entities"
)

var legendKeys = map[string]string{
	entities.EmojiJoin:     "legend.join",
	entities.EmojiReminder: "legend.reminder",
	entities.EmojiArchive:  "legend.archive",
	entities.EmojiDelete:   "legend.delete",
}

// composeAnnouncement builds the initial announcement of a new event. The participant
// sections are always appended last.
func (s *EventService) composeAnnouncement(event *entities.Event, description string, color *int, creator entities.Member) *entities.Announcement {
	a := &entities.Announcement{
		Title:       event.Title,
		Description: description,
		Color:       color,
		AuthorName:  creator.DisplayName,
		AuthorIcon:  creator.AvatarURL,
		Footer:      s.legend(event),
	}
	if infos := infoLines(event, s.settings); infos != "" {
		a.Fields = append(a.Fields, entities.EmbedField{Name: entities.SectionInfos, Value: infos})
	}
	a.ReplaceParticipantSections(entities.BuildRoster(nil, event.MaxSlots).Fields())
	return a
}

func infoLines(event *entities.Event, settings Settings) string {
	var lines []string
	if event.HasDate() {
		lines = append(lines, "**Date**: "+event.FormatDate(settings.location()))
	}
	if event.HasPrivateChannel() {
		lines = append(lines, "**Channel**: "+entities.ChannelMention(event.PrivateChannelID))
	}
	if len(event.RequiredRoleIDs) > 0 {
		mentions := make([]string, len(event.RequiredRoleIDs))
		for i, id := range event.RequiredRoleIDs {
			mentions[i] = entities.RoleMention(id)
		}
		lines = append(lines, "**Required roles**: "+strings.Join(mentions, " "))
	}
	return strings.Join(lines, "\n")
}

func (s *EventService) legend(event *entities.Event) string {
	reactions := entities.ActiveReactions(event, s.now())
	parts := make([]string, len(reactions))
	for i, emoji := range reactions {
		parts[i] = emoji + " " + s.translator.T(s.settings.Locale, legendKeys[emoji], nil)
	}
	return strings.Join(parts, " · ")
}
