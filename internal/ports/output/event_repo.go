package output

import (
	"context"
	"time"

	"eventbot/internal/domain/entities"
)

type EventRepository interface {
	// Create persists the event and its required roles; a title clash yields domain.ErrDuplicateTitle.
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id uint) (*entities.Event, error)
	FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error)
	// TitleExists compares case-insensitively.
	TitleExists(ctx context.Context, title string) (bool, error)
	// FindPendingReminders returns events dated after now whose reminder was not delivered yet.
	FindPendingReminders(ctx context.Context, now time.Time) ([]entities.Event, error)
	FindRoleIDs(ctx context.Context) ([]string, error)
	MarkReminded(ctx context.Context, id uint, at time.Time) error
	// Delete removes the event and every child row in one transaction.
	Delete(ctx context.Context, id uint) error
}
