package entities

// Member is the guild member acting on the bot.
type Member struct {
	UserID      string
	DisplayName string
	AvatarURL   string
}

// Reaction is an inbound reaction add/remove on a message.
type Reaction struct {
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
}
