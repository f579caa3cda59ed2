package entities

import "time"

// Participant represents a user's sign-up for an event.
type Participant struct {
	ID       uint
	EventID  uint
	UserID   string
	JoinedAt time.Time
}
