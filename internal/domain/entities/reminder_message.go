package entities

import "time"

// ReminderMessage records a reminder posted to the shared events channel, deleted with its event.
type ReminderMessage struct {
	MessageID string
	EventID   uint
	CreatedAt time.Time
}
