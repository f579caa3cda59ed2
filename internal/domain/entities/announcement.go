package entities

import (
	"fmt"
	"strings"
)

// Fixed section headers. The participant sections must stay the trailing fields of the embed.
const (
	SectionInfos        = "Infos"
	SectionParticipants = "Participants"
	SectionWaitingBench = "Waiting Bench"

	// EmptyFieldValue is the zero-width space rendered for empty sections.
	EmptyFieldValue = "\u200b"
)

// EmbedField is one titled section of an announcement.
type EmbedField struct {
	Name  string
	Value string
}

// Announcement is the platform-neutral model of an event announcement embed.
type Announcement struct {
	Title       string
	Description string
	Color       *int
	AuthorName  string
	AuthorIcon  string
	Footer      string
	Fields      []EmbedField
}

// IsParticipantSection reports whether a field is one of the rendered participant sections.
func IsParticipantSection(f EmbedField) bool {
	return f.Name == SectionWaitingBench || strings.HasPrefix(f.Name, SectionParticipants+" (")
}

// ReplaceParticipantSections strips the trailing Participants and Waiting Bench fields (at most
// two) and appends sections in their place; every other field is left untouched.
func (a *Announcement) ReplaceParticipantSections(sections []EmbedField) {
	fields := a.Fields
	for i := 0; i < 2 && len(fields) > 0 && IsParticipantSection(fields[len(fields)-1]); i++ {
		fields = fields[:len(fields)-1]
	}
	out := make([]EmbedField, 0, len(fields)+len(sections))
	out = append(out, fields...)
	out = append(out, sections...)
	a.Fields = out
}

// Clone returns a deep copy.
func (a *Announcement) Clone() *Announcement {
	c := *a
	c.Fields = append([]EmbedField(nil), a.Fields...)
	if a.Color != nil {
		v := *a.Color
		c.Color = &v
	}
	return &c
}

// UserMention formats a user mention.
func UserMention(id string) string { return fmt.Sprintf("<@%s>", id) }

// RoleMention formats a role mention.
func RoleMention(id string) string { return fmt.Sprintf("<@&%s>", id) }

// ChannelMention formats a channel mention.
func ChannelMention(id string) string { return fmt.Sprintf("<#%s>", id) }
