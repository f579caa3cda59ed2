package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

// Participant change labels reported to metrics.
const (
	changeJoin  = "join"
	changeLeave = "leave"
)

var _ input.ParticipantUseCase = (*ParticipantService)(nil)

// ParticipantService is the participant ledger: it owns the participant rows of an event and
// keeps the trailing sections of its announcement in sync with them.
type ParticipantService struct {
	participantRepo output.ParticipantRepository
	platform        output.Platform
	metrics         output.Metrics
	logger          *zap.Logger
	now             func() time.Time
}

func NewParticipantService(
	participantRepo output.ParticipantRepository,
	platform output.Platform,
	metrics output.Metrics,
	logger *zap.Logger,
) *ParticipantService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantService{
		participantRepo: participantRepo,
		platform:        platform,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// Join inserts the user unless already present, then re-renders the announcement.
func (s *ParticipantService) Join(ctx context.Context, event *entities.Event, userID string) (entities.Roster, error) {
	added, err := s.participantRepo.Add(ctx, &entities.Participant{
		EventID:  event.ID,
		UserID:   userID,
		JoinedAt: s.now(),
	})
	if err != nil {
		return entities.Roster{}, fmt.Errorf("add participant: %w", err)
	}
	if added {
		s.metrics.ParticipantChanged(changeJoin)
	}
	return s.Refresh(ctx, event)
}

// Leave removes the user if present, then re-renders the announcement.
func (s *ParticipantService) Leave(ctx context.Context, event *entities.Event, userID string) (entities.Roster, error) {
	removed, err := s.participantRepo.Remove(ctx, event.ID, userID)
	if err != nil {
		return entities.Roster{}, fmt.Errorf("remove participant: %w", err)
	}
	if removed {
		s.metrics.ParticipantChanged(changeLeave)
	}
	return s.Refresh(ctx, event)
}

// Refresh recomputes the roster from the store and rewrites the trailing sections.
func (s *ParticipantService) Refresh(ctx context.Context, event *entities.Event) (entities.Roster, error) {
	participants, err := s.participantRepo.FindByEventID(ctx, event.ID)
	if err != nil {
		return entities.Roster{}, fmt.Errorf("find participants: %w", err)
	}
	roster := entities.BuildRoster(participants, event.MaxSlots)
	s.render(ctx, event, roster)
	return roster, nil
}

func (s *ParticipantService) render(ctx context.Context, event *entities.Event, roster entities.Roster) {
	log := s.logger.With(zap.Uint("event_id", event.ID), zap.String("message_id", event.MessageID))

	announcement, err := s.platform.GetAnnouncement(ctx, event.ChannelID, event.MessageID)
	if err != nil {
		log.Warn("fetch announcement", zap.Error(err))
		return
	}
	announcement.ReplaceParticipantSections(roster.Fields())
	if err := s.platform.EditAnnouncement(ctx, event.ChannelID, event.MessageID, announcement); err != nil {
		log.Warn("edit announcement", zap.Error(err))
	}
}
