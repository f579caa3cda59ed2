package entities

import (
	"strings"
	"time"

	"eventbot/internal/domain"
)

// Discord embed limits.
const (
	MaxTitleLength       = 256
	MaxDescriptionLength = 4096
	MaxRequiredRoles     = 10
)

// ChannelRequest asks for a private event channel; Name defaults to the event title.
type ChannelRequest struct {
	Name string
}

// EventRequest is the typed creation request produced by the command layer.
type EventRequest struct {
	Title           string
	Description     string
	Color           *int
	Date            time.Time // zero = no date
	WithTime        bool
	Channel         *ChannelRequest
	RequiredRoleIDs []string
	MaxSlots        int // 0 = no limit
}

// Normalize trims free-text fields and drops empty or duplicate role ids.
func (r *EventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Channel != nil {
		r.Channel.Name = strings.TrimSpace(r.Channel.Name)
	}
	seen := make(map[string]struct{}, len(r.RequiredRoleIDs))
	roles := r.RequiredRoleIDs[:0]
	for _, id := range r.RequiredRoleIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		roles = append(roles, id)
	}
	r.RequiredRoleIDs = roles
}

// Validate checks the structural rules of a request. A date-only request is accepted for the
// current calendar day.
func (r *EventRequest) Validate(now time.Time) error {
	if r.Title == "" {
		return domain.ErrTitleRequired
	}
	if len([]rune(r.Title)) > MaxTitleLength {
		return domain.ErrTitleTooLong
	}
	if len([]rune(r.Description)) > MaxDescriptionLength {
		return domain.ErrDescriptionTooLong
	}
	if r.MaxSlots < 0 {
		return domain.ErrInvalidSlots
	}
	if r.Color != nil && (*r.Color < 0 || *r.Color > 0xFFFFFF) {
		return domain.ErrInvalidColor
	}
	if len(r.RequiredRoleIDs) > MaxRequiredRoles {
		return domain.ErrTooManyRequiredRoles
	}
	if !r.Date.IsZero() {
		if r.WithTime && !r.Date.After(now) {
			return domain.ErrDateTimeInPast
		}
		if !r.WithTime && !r.Date.AddDate(0, 0, 1).After(now) {
			return domain.ErrDateTimeInPast
		}
	}
	return nil
}

// ChannelName resolves the private channel name.
func (r *EventRequest) ChannelName() string {
	if r.Channel == nil {
		return ""
	}
	if r.Channel.Name != "" {
		return r.Channel.Name
	}
	return r.Title
}
