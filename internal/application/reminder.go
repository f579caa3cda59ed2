package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

const (
	// ReminderLeadTime is how long before a timed event its reminder fires.
	ReminderLeadTime = 2 * time.Hour
	// DateOnlyReminderHour is the local hour, on the day before, at which date-only events are reminded.
	DateOnlyReminderHour = 5

	reminderJobTimeout = 30 * time.Second
	// reminderGrace absorbs timer latency when telling an on-time reminder from a late one.
	reminderGrace = 5 * time.Minute
)

var _ input.ReminderUseCase = (*ReminderService)(nil)

// ReminderService keeps exactly one scheduled reminder per pending event. The job table is
// rebuilt wholesale on every load.
type ReminderService struct {
	eventRepo    output.EventRepository
	reminderRepo output.ReminderRepository
	platform     output.Platform
	scheduler    output.Scheduler
	translator   output.T
	metrics      output.Metrics
	logger       *zap.Logger
	settings     Settings
	now          func() time.Time

	// reloadMu serializes whole reloads, query included, so an older snapshot never replaces
	// a newer table.
	reloadMu sync.Mutex
	mu       sync.Mutex
	jobs     map[uint]output.JobHandle
}

func NewReminderService(
	eventRepo output.EventRepository,
	reminderRepo output.ReminderRepository,
	platform output.Platform,
	scheduler output.Scheduler,
	translator output.T,
	metrics output.Metrics,
	logger *zap.Logger,
	settings Settings,
) *ReminderService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		eventRepo:    eventRepo,
		reminderRepo: reminderRepo,
		platform:     platform,
		scheduler:    scheduler,
		translator:   translator,
		metrics:      metrics,
		logger:       logger,
		settings:     settings,
		now:          time.Now,
		jobs:         make(map[uint]output.JobHandle),
	}
}

// RemindAt computes when the reminder of a dated event fires.
func RemindAt(event *entities.Event, loc *time.Location) time.Time {
	if event.WithTime {
		return event.Date.Add(-ReminderLeadTime)
	}
	if loc == nil {
		loc = time.UTC
	}
	d := event.Date.In(loc).AddDate(0, 0, -1)
	return time.Date(d.Year(), d.Month(), d.Day(), DateOnlyReminderHour, 0, 0, 0, loc)
}

// reminderKey picks the wording matching the time actually left before the event. A reminder
// fired late, or sent ahead of its slot, does not claim the usual lead time.
func reminderKey(event *entities.Event, now time.Time, loc *time.Location) string {
	if event.WithTime {
		if event.Date.Sub(now) < ReminderLeadTime-reminderGrace {
			return "reminder.soon"
		}
		return "reminder.with_time"
	}
	if loc == nil {
		loc = time.UTC
	}
	day := event.Date.In(loc)
	tomorrow := now.In(loc).AddDate(0, 0, 1)
	if day.Year() == tomorrow.Year() && day.YearDay() == tomorrow.YearDay() {
		return "reminder.date_only"
	}
	return "reminder.upcoming"
}

// LoadReminders cancels every scheduled reminder and schedules one job per pending event.
// A reminder whose time already passed fires right away. Reloads run one at a time and a
// failed query keeps the current table.
func (s *ReminderService) LoadReminders(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	now := s.now()
	events, err := s.eventRepo.FindPendingReminders(ctx, now)
	if err != nil {
		return fmt.Errorf("find pending reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, handle := range s.jobs {
		s.scheduler.Cancel(handle)
	}
	s.jobs = make(map[uint]output.JobHandle, len(events))

	loc := s.settings.location()
	for i := range events {
		event := events[i]
		if !event.HasDate() {
			continue
		}
		at := RemindAt(&event, loc)
		if at.Before(now) {
			at = now
		}
		eventID := event.ID
		s.jobs[eventID] = s.scheduler.Schedule(at, func() { s.run(eventID) })
	}
	s.metrics.RemindersScheduled(len(s.jobs))
	s.logger.Info("reminders loaded", zap.Int("scheduled", len(s.jobs)))
	return nil
}

// Scheduled returns the number of jobs in the current table.
func (s *ReminderService) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels every scheduled reminder.
func (s *ReminderService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, handle := range s.jobs {
		s.scheduler.Cancel(handle)
	}
	s.jobs = make(map[uint]output.JobHandle)
	s.metrics.RemindersScheduled(0)
}

// run is the scheduled job body. Failures stay inside the job.
func (s *ReminderService) run(eventID uint) {
	log := s.logger.With(zap.Uint("event_id", eventID))
	defer func() {
		if r := recover(); r != nil {
			s.metrics.ReminderFailed()
			log.Error("reminder job panicked", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
	defer cancel()

	if err := s.SendReminder(ctx, eventID); err != nil {
		s.metrics.ReminderFailed()
		log.Error("send reminder", zap.Error(err))
	}
}

// SendReminder pings the opted-in users of an event once. Delivery is never retried: the
// event is marked reminded even when posting fails.
func (s *ReminderService) SendReminder(ctx context.Context, eventID uint) error {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("find event: %w", err)
	}
	if !event.RemindedAt.IsZero() {
		return nil
	}
	users, err := s.reminderRepo.FindRemindedUsers(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("find reminded users: %w", err)
	}

	mentions := make([]string, len(users))
	for i, u := range users {
		mentions[i] = entities.UserMention(u)
	}
	loc := s.settings.location()
	content := s.translator.T(s.settings.Locale, reminderKey(event, s.now(), loc), map[string]any{
		"Title":    event.Title,
		"Date":     event.FormatDate(loc),
		"Mentions": strings.Join(mentions, " "),
	})

	channelID := event.ChannelID
	if event.HasPrivateChannel() {
		channelID = event.PrivateChannelID
	}
	messageID, sendErr := s.platform.SendMessage(ctx, channelID, content)
	if sendErr == nil && !event.HasPrivateChannel() {
		if err := s.reminderRepo.AddMessage(ctx, &entities.ReminderMessage{
			MessageID: messageID,
			EventID:   event.ID,
			CreatedAt: s.now(),
		}); err != nil {
			s.logger.Error("record reminder message", zap.Uint("event_id", event.ID), zap.String("message_id", messageID), zap.Error(err))
		}
	}
	if err := s.eventRepo.MarkReminded(ctx, event.ID, s.now()); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	if sendErr != nil {
		return fmt.Errorf("post reminder: %w", sendErr)
	}
	s.metrics.ReminderSent()
	return nil
}
