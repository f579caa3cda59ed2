package input

import (
	"context"

	"eventbot/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, req entities.EventRequest, creator entities.Member) (*entities.Event, error)
	HandleReaction(ctx context.Context, reaction entities.Reaction, added bool) error
	DeleteEvent(ctx context.Context, event *entities.Event) error
	RemoveMember(ctx context.Context, userID string) error
}
