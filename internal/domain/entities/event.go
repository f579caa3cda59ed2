package entities

import "time"

// Event is a scheduled guild event announced by a single message in the events channel.
type Event struct {
	ID               uint
	Title            string
	MessageID        string
	ChannelID        string // channel holding the announcement
	CreatorID        string
	Date             time.Time // zero = no date
	WithTime         bool      // false = date-only precision
	PrivateChannelID string
	RoleID           string // set whenever PrivateChannelID is set
	MaxSlots         int    // 0 = no limit
	RequiredRoleIDs  []string
	RemindedAt       time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e *Event) HasDate() bool {
	return !e.Date.IsZero()
}

// ReminderPending reports whether the event still awaits its reminder: dated in the future and
// not yet reminded.
func (e *Event) ReminderPending(now time.Time) bool {
	return e.HasDate() && e.Date.After(now) && e.RemindedAt.IsZero()
}

func (e *Event) HasPrivateChannel() bool {
	return e.PrivateChannelID != ""
}

func (e *Event) HasLimit() bool {
	return e.MaxSlots > 0
}

// IsCreator reports whether userID created the event.
func (e *Event) IsCreator(userID string) bool {
	return userID != "" && e.CreatorID == userID
}

// Date display layouts.
const (
	DateLayout     = "02.01.2006"
	DateTimeLayout = "02.01.2006 15:04"
)

// FormatDate renders the event date in loc with or without time of day.
func (e *Event) FormatDate(loc *time.Location) string {
	if !e.HasDate() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	if e.WithTime {
		return e.Date.In(loc).Format(DateTimeLayout)
	}
	return e.Date.In(loc).Format(DateLayout)
}

// HoldsAnyRequiredRole reports whether roles satisfy the event's role gate.
func (e *Event) HoldsAnyRequiredRole(roles []string) bool {
	if len(e.RequiredRoleIDs) == 0 {
		return true
	}
	for _, want := range e.RequiredRoleIDs {
		for _, have := range roles {
			if want == have {
				return true
			}
		}
	}
	return false
}
