package database

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("eventbot"),
		postgres.WithUsername("eventbot"),
		postgres.WithPassword("password"),
		testcontainers.WithEnv(map[string]string{"TZ": "UTC"}),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("postgres container unavailable, skipping repository tests: %v", err)
		os.Exit(m.Run())
	}

	code := func() int {
		defer func() {
			if err := container.Terminate(ctx); err != nil {
				log.Printf("failed to terminate container: %s", err)
			}
		}()

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			log.Printf("failed to get connection string: %v", err)
			return 1
		}
		if err := RunMigrations(dsn, "../../../migrations", zap.NewNop()); err != nil {
			log.Printf("failed to migrate: %v", err)
			return 1
		}
		testPool, err = NewPool(ctx, dsn, zap.NewNop())
		if err != nil {
			log.Printf("failed to connect: %v", err)
			return 1
		}
		defer testPool.Close()
		return m.Run()
	}()
	os.Exit(code)
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testPool == nil {
		t.Skip("postgres not available")
	}
	_, err := testPool.Exec(context.Background(), `TRUNCATE events RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return testPool
}

func newEvent(title, messageID string) *entities.Event {
	return &entities.Event{
		Title:     title,
		MessageID: messageID,
		ChannelID: "100",
		CreatorID: "200",
	}
}

func TestEventRepository_CreateAndFind(t *testing.T) {
	pool := requireDB(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	date := time.Date(2026, 8, 1, 19, 0, 0, 0, time.UTC)
	event := newEvent("Raid", "m1")
	event.Date = date
	event.WithTime = true
	event.PrivateChannelID = "300"
	event.RoleID = "400"
	event.MaxSlots = 5
	event.RequiredRoleIDs = []string{"11", "12"}
	require.NoError(t, repo.Create(ctx, event))
	require.NotZero(t, event.ID)

	got, err := repo.FindByMessageID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
	assert.True(t, date.Equal(got.Date))
	assert.True(t, got.WithTime)
	assert.Equal(t, "300", got.PrivateChannelID)
	assert.Equal(t, "400", got.RoleID)
	assert.Equal(t, 5, got.MaxSlots)
	assert.Equal(t, []string{"11", "12"}, got.RequiredRoleIDs)
	assert.True(t, got.RemindedAt.IsZero())

	byID, err := repo.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, got.MessageID, byID.MessageID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventRepository_RequiredRolesKeepRequestOrder(t *testing.T) {
	pool := requireDB(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	event := newEvent("Siege", "m1")
	event.RequiredRoleIDs = []string{"30", "10", "20", "10"}
	require.NoError(t, repo.Create(ctx, event))

	got, err := repo.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"30", "10", "20"}, got.RequiredRoleIDs)
}

func TestEventRepository_TitleIsCaseInsensitiveUnique(t *testing.T) {
	pool := requireDB(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newEvent("Movie Night", "m1")))

	exists, err := repo.TitleExists(ctx, "MOVIE night")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, newEvent("movie night", "m2"))
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)
}

func TestEventRepository_ChannelRequiresRole(t *testing.T) {
	pool := requireDB(t)
	repo := NewEventRepository(pool)

	event := newEvent("Orphan channel", "m1")
	event.PrivateChannelID = "300"
	assert.Error(t, repo.Create(context.Background(), event))
}

func TestEventRepository_PendingReminders(t *testing.T) {
	pool := requireDB(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	future := newEvent("future", "m1")
	future.Date = now.Add(time.Hour)
	past := newEvent("past", "m2")
	past.Date = now.Add(-time.Hour)
	undated := newEvent("undated", "m3")
	reminded := newEvent("reminded", "m4")
	reminded.Date = now.Add(2 * time.Hour)
	for _, e := range []*entities.Event{future, past, undated, reminded} {
		require.NoError(t, repo.Create(ctx, e))
	}
	require.NoError(t, repo.MarkReminded(ctx, reminded.ID, now))

	pending, err := repo.FindPendingReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, future.ID, pending[0].ID)

	assert.ErrorIs(t, repo.MarkReminded(ctx, 9999, now), domain.ErrEventNotFound)
}

func TestParticipantRepository_AddIsIdempotent(t *testing.T) {
	pool := requireDB(t)
	events := NewEventRepository(pool)
	repo := NewParticipantRepository(pool)
	ctx := context.Background()

	event := newEvent("Picnic", "m1")
	require.NoError(t, events.Create(ctx, event))
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	added, err := repo.Add(ctx, &entities.Participant{EventID: event.ID, UserID: "b", JoinedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.True(t, added)
	added, err = repo.Add(ctx, &entities.Participant{EventID: event.ID, UserID: "b", JoinedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.False(t, added)
	_, err = repo.Add(ctx, &entities.Participant{EventID: event.ID, UserID: "a", JoinedAt: base})
	require.NoError(t, err)

	participants, err := repo.FindByEventID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "a", participants[0].UserID)
	assert.Equal(t, "b", participants[1].UserID)

	ids, err := repo.FindEventIDsByUserID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []uint{event.ID}, ids)

	removed, err := repo.Remove(ctx, event.ID, "a")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Remove(ctx, event.ID, "a")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReminderRepository_ReplaceUsers(t *testing.T) {
	pool := requireDB(t)
	events := NewEventRepository(pool)
	repo := NewReminderRepository(pool)
	ctx := context.Background()

	event := newEvent("Concert", "m1")
	require.NoError(t, events.Create(ctx, event))

	require.NoError(t, repo.ReplaceRemindedUsers(ctx, event.ID, []string{"a", "b"}))
	require.NoError(t, repo.ReplaceRemindedUsers(ctx, event.ID, []string{"c", "b"}))
	users, err := repo.FindRemindedUsers(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, users)

	require.NoError(t, repo.ReplaceRemindedUsers(ctx, event.ID, nil))
	users, err = repo.FindRemindedUsers(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestEventRepository_DeleteCascades(t *testing.T) {
	pool := requireDB(t)
	events := NewEventRepository(pool)
	participants := NewParticipantRepository(pool)
	reminders := NewReminderRepository(pool)
	ctx := context.Background()

	doomed := newEvent("Doomed", "m1")
	doomed.RequiredRoleIDs = []string{"11"}
	sibling := newEvent("Sibling", "m2")
	require.NoError(t, events.Create(ctx, doomed))
	require.NoError(t, events.Create(ctx, sibling))

	for _, e := range []*entities.Event{doomed, sibling} {
		_, err := participants.Add(ctx, &entities.Participant{EventID: e.ID, UserID: "a", JoinedAt: time.Now()})
		require.NoError(t, err)
		require.NoError(t, reminders.ReplaceRemindedUsers(ctx, e.ID, []string{"a"}))
	}
	require.NoError(t, reminders.AddMessage(ctx, &entities.ReminderMessage{MessageID: "r1", EventID: doomed.ID}))

	require.NoError(t, events.Delete(ctx, doomed.ID))

	_, err := events.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	for _, table := range []string{"event_participants", "event_reminder_messages", "event_required_roles", "event_reminder_users"} {
		var n int
		require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM `+table+` WHERE event_id = $1`, int64(doomed.ID)).Scan(&n))
		assert.Zero(t, n, table)
	}

	left, err := participants.FindByEventID(ctx, sibling.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
	msgs, err := reminders.FindMessagesByEventID(ctx, sibling.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	assert.ErrorIs(t, events.Delete(ctx, doomed.ID), domain.ErrEventNotFound)
}

func TestEventRepository_FindRoleIDs(t *testing.T) {
	pool := requireDB(t)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	withRole := newEvent("With role", "m1")
	withRole.PrivateChannelID = "300"
	withRole.RoleID = "400"
	require.NoError(t, repo.Create(ctx, withRole))
	require.NoError(t, repo.Create(ctx, newEvent("Without", "m2")))

	ids, err := repo.FindRoleIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"400"}, ids)
}
