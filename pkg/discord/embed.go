package discord

import (
	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
)

// ToMessageEmbed converts an announcement into a Discord embed.
func ToMessageEmbed(a *entities.Announcement) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       a.Title,
		Description: a.Description,
	}
	if a.Color != nil {
		embed.Color = *a.Color
	}
	if a.AuthorName != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: a.AuthorName, IconURL: a.AuthorIcon}
	}
	if a.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: a.Footer}
	}
	for _, f := range a.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
	}
	return embed
}

// FromMessageEmbed reads an announcement back from a posted embed.
func FromMessageEmbed(embed *discordgo.MessageEmbed) *entities.Announcement {
	a := &entities.Announcement{
		Title:       embed.Title,
		Description: embed.Description,
	}
	if embed.Color != 0 {
		c := embed.Color
		a.Color = &c
	}
	if embed.Author != nil {
		a.AuthorName = embed.Author.Name
		a.AuthorIcon = embed.Author.IconURL
	}
	if embed.Footer != nil {
		a.Footer = embed.Footer.Text
	}
	for _, f := range embed.Fields {
		if f == nil {
			continue
		}
		a.Fields = append(a.Fields, entities.EmbedField{Name: f.Name, Value: f.Value})
	}
	return a
}
