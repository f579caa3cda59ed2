package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

type ReminderRepository interface {
	// ReplaceRemindedUsers replaces the full opt-in set of an event.
	ReplaceRemindedUsers(ctx context.Context, eventID uint, userIDs []string) error
	FindRemindedUsers(ctx context.Context, eventID uint) ([]string, error)
	AddMessage(ctx context.Context, msg *entities.ReminderMessage) error
	FindMessagesByEventID(ctx context.Context, eventID uint) ([]entities.ReminderMessage, error)
}
