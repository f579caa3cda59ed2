package input

import (
	"context"

	"eventbot/internal/domain/entities"
)

type ParticipantUseCase interface {
	Join(ctx context.Context, event *entities.Event, userID string) (entities.Roster, error)
	Leave(ctx context.Context, event *entities.Event, userID string) (entities.Roster, error)
	Refresh(ctx context.Context, event *entities.Event) (entities.Roster, error)
}
