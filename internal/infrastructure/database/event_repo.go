package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO events (title, message_id, channel_id, creator_id, date, with_time,
				private_channel_id, role_id, max_slots)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			event.Title, event.MessageID, event.ChannelID, event.CreatorID,
			timeToTimestamptz(event.Date), event.WithTime,
			stringToText(event.PrivateChannelID), stringToText(event.RoleID), int32(event.MaxSlots),
		).Scan(&id, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create event: %w", mapEventError(err))
		}
		event.ID = uint(id)

		for i, roleID := range event.RequiredRoleIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO event_required_roles (event_id, role_id, position) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				id, roleID, i,
			); err != nil {
				return fmt.Errorf("create required role: %w", err)
			}
		}
		return nil
	})
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*entities.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, int64(id))
	return r.loadOne(ctx, row, "get event by id")
}

func (r *EventRepository) FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE message_id = $1`, messageID)
	return r.loadOne(ctx, row, "get event by message id")
}

func (r *EventRepository) loadOne(ctx context.Context, row pgx.Row, op string) (*entities.Event, error) {
	e, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapEventError(err))
	}
	if err := r.attachRequiredRoles(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) attachRequiredRoles(ctx context.Context, e *entities.Event) error {
	rows, err := r.pool.Query(ctx,
		`SELECT role_id FROM event_required_roles WHERE event_id = $1 ORDER BY position`, int64(e.ID))
	if err != nil {
		return fmt.Errorf("list required roles: %w", err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("scan required roles: %w", err)
	}
	e.RequiredRoleIDs = roles
	return nil
}

func (r *EventRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE lower(title) = lower($1))`, title,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}
	return exists, nil
}

func (r *EventRepository) FindPendingReminders(ctx context.Context, now time.Time) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE date IS NOT NULL AND date > $1 AND reminded_at IS NULL
		ORDER BY date, id`, now)
	if err != nil {
		return nil, fmt.Errorf("list pending reminders: %w", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Event, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan pending reminders: %w", err)
	}
	return events, nil
}

func (r *EventRepository) FindRoleIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT role_id FROM events WHERE role_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list event roles: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan event roles: %w", err)
	}
	return ids, nil
}

func (r *EventRepository) MarkReminded(ctx context.Context, id uint, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET reminded_at = $2, updated_at = NOW() WHERE id = $1`, int64(id), at)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark reminded: %w", mapEventError(pgx.ErrNoRows))
	}
	return nil
}

// Delete removes the event and its child rows in one transaction. The foreign keys also
// cascade; the explicit deletes keep the order visible.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, q := range []string{
			`DELETE FROM event_required_roles WHERE event_id = $1`,
			`DELETE FROM event_reminder_users WHERE event_id = $1`,
			`DELETE FROM event_reminder_messages WHERE event_id = $1`,
			`DELETE FROM event_participants WHERE event_id = $1`,
		} {
			if _, err := tx.Exec(ctx, q, int64(id)); err != nil {
				return fmt.Errorf("delete event children: %w", err)
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, int64(id))
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("delete event: %w", mapEventError(pgx.ErrNoRows))
		}
		return nil
	})
}
