package application

import "time"

// Settings is the guild configuration the services act on.
type Settings struct {
	EventsChannelID   string
	EventsCategoryID  string
	ArchiveCategoryID string
	SeparatorRoleID   string
	// ArchiveSyncDelay separates the channel move from the permission sync.
	ArchiveSyncDelay time.Duration
	Location         *time.Location
	Locale           string
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
