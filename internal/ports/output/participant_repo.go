package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

type ParticipantRepository interface {
	// Add inserts the participant unless (event, user) already exists; it reports whether a row was created.
	Add(ctx context.Context, participant *entities.Participant) (bool, error)
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, eventID uint, userID string) (bool, error)
	// FindByEventID returns participants ordered by join time.
	FindByEventID(ctx context.Context, eventID uint) ([]entities.Participant, error)
	FindEventIDsByUserID(ctx context.Context, userID string) ([]uint, error)
}
