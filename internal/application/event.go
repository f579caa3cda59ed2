package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

// EventService manages the lifecycle of events: creation, reaction dispatch and deletion.
type EventService struct {
	eventRepo       output.EventRepository
	participantRepo output.ParticipantRepository
	reminderRepo    output.ReminderRepository
	platform        output.Platform
	participants    *ParticipantService
	reminders       *ReminderService
	roles           *RoleService
	translator      output.T
	metrics         output.Metrics
	logger          *zap.Logger
	settings        Settings

	retractions *retractions
	locks       *keyedMutex
	now         func() time.Time
}

func NewEventService(
	eventRepo output.EventRepository,
	participantRepo output.ParticipantRepository,
	reminderRepo output.ReminderRepository,
	platform output.Platform,
	participants *ParticipantService,
	reminders *ReminderService,
	roles *RoleService,
	translator output.T,
	metrics output.Metrics,
	logger *zap.Logger,
	settings Settings,
) *EventService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		reminderRepo:    reminderRepo,
		platform:        platform,
		participants:    participants,
		reminders:       reminders,
		roles:           roles,
		translator:      translator,
		metrics:         metrics,
		logger:          logger,
		settings:        settings,
		retractions:     newRetractions(retractionTTL),
		locks:           newKeyedMutex(),
		now:             time.Now,
	}
}

// CreateEvent validates the request, provisions the optional private channel, posts the
// announcement and persists the event. Nothing is created on the platform when the title
// is already taken.
func (s *EventService) CreateEvent(ctx context.Context, req entities.EventRequest, creator entities.Member) (*entities.Event, error) {
	req.Normalize()
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}
	exists, err := s.eventRepo.TitleExists(ctx, req.Title)
	if err != nil {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateTitle
	}

	event := &entities.Event{
		Title:           req.Title,
		ChannelID:       s.settings.EventsChannelID,
		CreatorID:       creator.UserID,
		Date:            req.Date,
		WithTime:        req.WithTime && !req.Date.IsZero(),
		MaxSlots:        req.MaxSlots,
		RequiredRoleIDs: req.RequiredRoleIDs,
	}
	log := s.logger.With(zap.String("title", event.Title), zap.String("user_id", creator.UserID))

	var undo []func()
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}

	if req.Channel != nil {
		name := req.ChannelName()
		roleID, err := s.platform.CreateRole(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("create role: %w", err)
		}
		event.RoleID = roleID
		undo = append(undo, func() {
			if err := s.platform.DeleteRole(context.WithoutCancel(ctx), roleID); err != nil {
				log.Warn("rollback role", zap.String("role_id", roleID), zap.Error(err))
			}
		})

		channelID, err := s.platform.CreatePrivateChannel(ctx, name, s.settings.EventsCategoryID, roleID)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("create channel: %w", err)
		}
		event.PrivateChannelID = channelID
		undo = append(undo, func() {
			if err := s.platform.DeleteChannel(context.WithoutCancel(ctx), channelID); err != nil {
				log.Warn("rollback channel", zap.String("channel_id", channelID), zap.Error(err))
			}
		})
	}

	announcement := s.composeAnnouncement(event, req.Description, req.Color, creator)
	messageID, err := s.platform.SendAnnouncement(ctx, event.ChannelID, announcement)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("post announcement: %w", err)
	}
	event.MessageID = messageID
	undo = append(undo, func() {
		if err := s.platform.DeleteMessage(context.WithoutCancel(ctx), event.ChannelID, messageID); err != nil {
			log.Warn("rollback announcement", zap.String("message_id", messageID), zap.Error(err))
		}
	})

	for _, emoji := range entities.ActiveReactions(event, s.now()) {
		if err := s.platform.AddReaction(ctx, event.ChannelID, messageID, emoji); err != nil {
			log.Warn("seed reaction", zap.String("emoji", emoji), zap.Error(err))
		}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		rollback()
		return nil, fmt.Errorf("persist event: %w", err)
	}
	s.metrics.EventCreated()
	log.Info("event created", zap.Uint("event_id", event.ID), zap.String("message_id", messageID))

	if err := s.reminders.LoadReminders(ctx); err != nil {
		log.Error("reload reminders", zap.Error(err))
	}
	return event, nil
}

// HandleReaction dispatches a reaction on an announcement. Reactions from the bot itself and
// the removals the bot caused are ignored.
func (s *EventService) HandleReaction(ctx context.Context, r entities.Reaction, added bool) error {
	if r.UserID == "" || r.UserID == s.platform.BotUserID() {
		return nil
	}
	if !added && s.retractions.consume(keyOf(r)) {
		return nil
	}

	unlock := s.locks.Lock(r.MessageID)
	defer unlock()

	event, err := s.eventRepo.FindByMessageID(ctx, r.MessageID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find event: %w", err)
	}

	switch r.Emoji {
	case entities.EmojiJoin:
		s.metrics.ReactionHandled(r.Emoji, added)
		if added {
			return s.join(ctx, event, r)
		}
		return s.leave(ctx, event, r.UserID)
	case entities.EmojiReminder:
		if !event.HasDate() {
			return nil
		}
		s.metrics.ReactionHandled(r.Emoji, added)
		return s.syncReminderUsers(ctx, event)
	case entities.EmojiArchive:
		if !added || !event.HasPrivateChannel() {
			return nil
		}
		s.metrics.ReactionHandled(r.Emoji, added)
		return s.archive(ctx, event, r)
	case entities.EmojiDelete:
		if !added {
			return nil
		}
		s.metrics.ReactionHandled(r.Emoji, added)
		if err := s.authorize(ctx, event, r.UserID); err != nil {
			s.retract(ctx, r)
			return err
		}
		return s.deleteEvent(ctx, event)
	}
	return nil
}

func (s *EventService) join(ctx context.Context, event *entities.Event, r entities.Reaction) error {
	if len(event.RequiredRoleIDs) > 0 {
		roles, err := s.platform.MemberRoles(ctx, r.UserID)
		if err != nil {
			return fmt.Errorf("member roles: %w", err)
		}
		if !event.HoldsAnyRequiredRole(roles) {
			s.retract(ctx, r)
			s.notifyMissingRole(ctx, event, r.UserID)
			return domain.ErrMissingRequiredRole
		}
	}

	if _, err := s.participants.Join(ctx, event, r.UserID); err != nil {
		return err
	}
	if event.RoleID != "" {
		if err := s.roles.Grant(ctx, r.UserID, event.RoleID); err != nil {
			s.logger.Warn("grant event role", zap.Uint("event_id", event.ID), zap.String("user_id", r.UserID), zap.Error(err))
		}
	}
	return nil
}

func (s *EventService) leave(ctx context.Context, event *entities.Event, userID string) error {
	if _, err := s.participants.Leave(ctx, event, userID); err != nil {
		return err
	}
	if event.RoleID != "" {
		if err := s.roles.Revoke(ctx, userID, event.RoleID); err != nil {
			s.logger.Warn("revoke event role", zap.Uint("event_id", event.ID), zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

// syncReminderUsers replaces the opt-in set with the current reactors.
func (s *EventService) syncReminderUsers(ctx context.Context, event *entities.Event) error {
	users, err := s.platform.ReactionUsers(ctx, event.ChannelID, event.MessageID, entities.EmojiReminder)
	if err != nil {
		return fmt.Errorf("list reminder reactors: %w", err)
	}
	bot := s.platform.BotUserID()
	kept := users[:0]
	for _, u := range users {
		if u != bot {
			kept = append(kept, u)
		}
	}
	if err := s.reminderRepo.ReplaceRemindedUsers(ctx, event.ID, kept); err != nil {
		return fmt.Errorf("replace reminded users: %w", err)
	}
	return nil
}

func (s *EventService) archive(ctx context.Context, event *entities.Event, r entities.Reaction) error {
	if err := s.authorize(ctx, event, r.UserID); err != nil {
		s.retract(ctx, r)
		return err
	}
	if err := s.platform.MoveChannel(ctx, event.PrivateChannelID, s.settings.ArchiveCategoryID); err != nil {
		return fmt.Errorf("move channel: %w", err)
	}
	if err := wait(ctx, s.settings.ArchiveSyncDelay); err != nil {
		return err
	}
	if err := s.platform.SyncChannelPermissions(ctx, event.PrivateChannelID); err != nil {
		return fmt.Errorf("sync channel permissions: %w", err)
	}
	s.logger.Info("event archived", zap.Uint("event_id", event.ID), zap.String("channel_id", event.PrivateChannelID))
	return nil
}

// authorize allows the creator and administrators.
func (s *EventService) authorize(ctx context.Context, event *entities.Event, userID string) error {
	if event.IsCreator(userID) {
		return nil
	}
	privileged, err := s.platform.IsPrivileged(ctx, userID)
	if err != nil {
		return fmt.Errorf("check privilege: %w", err)
	}
	if !privileged {
		return domain.ErrNotOrganizer
	}
	return nil
}

// DeleteEvent removes the event from the platform (best effort) and from the store (one
// transaction), then reloads reminders. It waits for reactions in flight on the announcement.
func (s *EventService) DeleteEvent(ctx context.Context, event *entities.Event) error {
	unlock := s.locks.Lock(event.MessageID)
	defer unlock()
	return s.deleteEvent(ctx, event)
}

// deleteEvent expects the announcement lock to be held.
func (s *EventService) deleteEvent(ctx context.Context, event *entities.Event) error {
	log := s.logger.With(zap.Uint("event_id", event.ID), zap.String("message_id", event.MessageID))

	if err := s.platform.DeleteMessage(ctx, event.ChannelID, event.MessageID); err != nil {
		log.Warn("delete announcement", zap.Error(err))
	}
	if event.HasPrivateChannel() && event.RoleID != "" {
		if err := s.platform.DeleteRole(ctx, event.RoleID); err != nil {
			log.Warn("delete event role", zap.String("role_id", event.RoleID), zap.Error(err))
		}
	}
	messages, err := s.reminderRepo.FindMessagesByEventID(ctx, event.ID)
	if err != nil {
		log.Error("find reminder messages", zap.Error(err))
	}
	for _, m := range messages {
		if err := s.platform.DeleteMessage(ctx, event.ChannelID, m.MessageID); err != nil {
			log.Warn("delete reminder message", zap.String("reminder_message_id", m.MessageID), zap.Error(err))
		}
	}

	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.metrics.EventDeleted()
	log.Info("event deleted")

	if err := s.reminders.LoadReminders(ctx); err != nil {
		log.Error("reload reminders", zap.Error(err))
	}
	return nil
}

// RemoveMember drops a departed member from every event they joined.
func (s *EventService) RemoveMember(ctx context.Context, userID string) error {
	eventIDs, err := s.participantRepo.FindEventIDsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find member events: %w", err)
	}
	var errs []error
	for _, id := range eventIDs {
		if err := s.removeFromEvent(ctx, id, userID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *EventService) removeFromEvent(ctx context.Context, eventID uint, userID string) error {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find event %d: %w", eventID, err)
	}
	unlock := s.locks.Lock(event.MessageID)
	defer unlock()
	if _, err := s.participants.Leave(ctx, event, userID); err != nil {
		return fmt.Errorf("leave event %d: %w", eventID, err)
	}
	return nil
}

// retract removes a user's reaction on their behalf and marks the echo to be ignored.
func (s *EventService) retract(ctx context.Context, r entities.Reaction) {
	key := keyOf(r)
	s.retractions.record(key)
	if err := s.platform.RemoveUserReaction(ctx, r.ChannelID, r.MessageID, r.Emoji, r.UserID); err != nil {
		s.retractions.forget(key)
		s.logger.Warn("retract reaction", zap.String("message_id", r.MessageID), zap.String("user_id", r.UserID), zap.Error(err))
	}
}

func (s *EventService) notifyMissingRole(ctx context.Context, event *entities.Event, userID string) {
	msg := s.translator.T(s.settings.Locale, "dm.join.missing_role", map[string]any{
		"Title": event.Title,
		"Count": len(event.RequiredRoleIDs),
	})
	if err := s.platform.SendDirectMessage(ctx, userID, msg); err != nil {
		s.logger.Warn("notify missing role", zap.String("user_id", userID), zap.Error(err))
	}
}

func keyOf(r entities.Reaction) retractionKey {
	return retractionKey{messageID: r.MessageID, userID: r.UserID, emoji: r.Emoji}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
