package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.ReminderRepository = (*ReminderRepository)(nil)

// ReminderRepository stores reminder opt-ins and the reminder messages posted to the events channel.
type ReminderRepository struct {
	pool *pgxpool.Pool
}

func NewReminderRepository(pool *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{pool: pool}
}

func (r *ReminderRepository) ReplaceRemindedUsers(ctx context.Context, eventID uint, userIDs []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM event_reminder_users WHERE event_id = $1`, int64(eventID)); err != nil {
			return fmt.Errorf("clear reminded users: %w", err)
		}
		if len(userIDs) == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO event_reminder_users (event_id, user_id)
			SELECT $1, u FROM unnest($2::text[]) AS u
			ON CONFLICT DO NOTHING`,
			int64(eventID), userIDs,
		); err != nil {
			return fmt.Errorf("insert reminded users: %w", err)
		}
		return nil
	})
}

func (r *ReminderRepository) FindRemindedUsers(ctx context.Context, eventID uint) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM event_reminder_users WHERE event_id = $1 ORDER BY user_id`, int64(eventID))
	if err != nil {
		return nil, fmt.Errorf("list reminded users: %w", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan reminded users: %w", err)
	}
	return users, nil
}

func (r *ReminderRepository) AddMessage(ctx context.Context, msg *entities.ReminderMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO event_reminder_messages (message_id, event_id, created_at) VALUES ($1, $2, COALESCE($3, NOW()))`,
		msg.MessageID, int64(msg.EventID), timeToTimestamptz(msg.CreatedAt))
	if err != nil {
		return fmt.Errorf("create reminder message: %w", err)
	}
	return nil
}

func (r *ReminderRepository) FindMessagesByEventID(ctx context.Context, eventID uint) ([]entities.ReminderMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT message_id, event_id, created_at
		FROM event_reminder_messages
		WHERE event_id = $1
		ORDER BY created_at`, int64(eventID))
	if err != nil {
		return nil, fmt.Errorf("list reminder messages: %w", err)
	}
	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.ReminderMessage, error) {
		var (
			m         entities.ReminderMessage
			evID      int64
			createdAt pgtype.Timestamptz
		)
		if err := row.Scan(&m.MessageID, &evID, &createdAt); err != nil {
			return entities.ReminderMessage{}, err
		}
		m.EventID = uint(evID)
		m.CreatedAt = pgtypeTimestamptzToTime(createdAt)
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan reminder messages: %w", err)
	}
	return messages, nil
}
