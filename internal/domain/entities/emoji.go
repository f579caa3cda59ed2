package entities

import "time"

// Reactions seeded on every announcement.
const (
	EmojiJoin     = "✅"
	EmojiReminder = "⏰"
	EmojiArchive  = "💾"
	EmojiDelete   = "❌"
)

// ActiveReactions returns the reactions seeded on an event's announcement, in display order.
// The reminder opt-in is only offered while a reminder can still be sent.
func ActiveReactions(e *Event, now time.Time) []string {
	out := []string{EmojiJoin}
	if e.ReminderPending(now) {
		out = append(out, EmojiReminder)
	}
	if e.HasPrivateChannel() {
		out = append(out, EmojiArchive)
	}
	return append(out, EmojiDelete)
}
