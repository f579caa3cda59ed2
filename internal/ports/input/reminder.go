package input

import "context"

type ReminderUseCase interface {
	LoadReminders(ctx context.Context) error
	SendReminder(ctx context.Context, eventID uint) error
}
