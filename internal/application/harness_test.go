package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventbot/internal/domain/entities"
)

var testNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *memStore
	platform  *fakePlatform
	scheduler *manualScheduler
	metrics   *countingMetrics
	settings  Settings

	participants *ParticipantService
	reminders    *ReminderService
	roles        *RoleService
	events       *EventService

	clock time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:     newMemStore(),
		platform:  newFakePlatform(),
		scheduler: newManualScheduler(),
		metrics:   &countingMetrics{},
		settings: Settings{
			EventsChannelID:   "events",
			EventsCategoryID:  "cat-events",
			ArchiveCategoryID: "cat-archive",
			SeparatorRoleID:   "separator",
			Location:          time.UTC,
			Locale:            "en",
		},
		clock: testNow,
	}
	now := func() time.Time { return env.clock }
	logger := zap.NewNop()

	env.participants = NewParticipantService(participantStore{env.store}, env.platform, env.metrics, logger)
	env.participants.now = env.tick
	env.reminders = NewReminderService(env.store, reminderStore{env.store}, env.platform, env.scheduler, keyTranslator{}, env.metrics, logger, env.settings)
	env.reminders.now = now
	env.roles = NewRoleService(env.platform, env.store, env.settings.SeparatorRoleID, logger)
	env.events = NewEventService(env.store, participantStore{env.store}, reminderStore{env.store}, env.platform,
		env.participants, env.reminders, env.roles, keyTranslator{}, env.metrics, logger, env.settings)
	env.events.now = now
	return env
}

// tick returns the clock and advances it, so consecutive joins get ordered timestamps.
func (e *testEnv) tick() time.Time {
	at := e.clock
	e.clock = e.clock.Add(time.Second)
	return at
}

func (e *testEnv) create(t *testing.T, req entities.EventRequest) *entities.Event {
	t.Helper()
	event, err := e.events.CreateEvent(context.Background(), req, entities.Member{UserID: "creator", DisplayName: "Creator", AvatarURL: "https://cdn/avatar.png"})
	require.NoError(t, err)
	return event
}

// react simulates a user toggling a reaction, like the gateway would deliver it.
func (e *testEnv) react(t *testing.T, event *entities.Event, userID, emoji string, added bool) error {
	t.Helper()
	if added {
		e.platform.react(event.MessageID, emoji, userID)
	} else {
		e.platform.unreact(event.MessageID, emoji, userID)
	}
	return e.events.HandleReaction(context.Background(), entities.Reaction{
		ChannelID: event.ChannelID,
		MessageID: event.MessageID,
		UserID:    userID,
		Emoji:     emoji,
	}, added)
}

func (e *testEnv) announcement(t *testing.T, event *entities.Event) *entities.Announcement {
	t.Helper()
	a, err := e.platform.GetAnnouncement(context.Background(), event.ChannelID, event.MessageID)
	require.NoError(t, err)
	return a
}

func fieldsNamed(a *entities.Announcement) map[string]string {
	out := make(map[string]string, len(a.Fields))
	for _, f := range a.Fields {
		out[f.Name] = f.Value
	}
	return out
}
