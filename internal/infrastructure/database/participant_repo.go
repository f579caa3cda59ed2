package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository implements output.ParticipantRepository using pgx.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository creates a ParticipantRepository.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

func (r *ParticipantRepository) Add(ctx context.Context, participant *entities.Participant) (bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO event_participants (event_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING id`,
		int64(participant.EventID), participant.UserID, timeToTimestamptz(participant.JoinedAt),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create participant: %w", err)
	}
	participant.ID = uint(id)
	return true, nil
}

func (r *ParticipantRepository) Remove(ctx context.Context, eventID uint, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`, int64(eventID), userID)
	if err != nil {
		return false, fmt.Errorf("delete participant: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ParticipantRepository) FindByEventID(ctx context.Context, eventID uint) ([]entities.Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_id, user_id, joined_at
		FROM event_participants
		WHERE event_id = $1
		ORDER BY joined_at, id`, int64(eventID))
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	participants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Participant, error) {
		var (
			id, evID int64
			p        entities.Participant
			joinedAt pgtype.Timestamptz
		)
		if err := row.Scan(&id, &evID, &p.UserID, &joinedAt); err != nil {
			return entities.Participant{}, err
		}
		p.ID = uint(id)
		p.EventID = uint(evID)
		p.JoinedAt = pgtypeTimestamptzToTime(joinedAt)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan participants: %w", err)
	}
	return participants, nil
}

func (r *ParticipantRepository) FindEventIDsByUserID(ctx context.Context, userID string) ([]uint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT event_id FROM event_participants WHERE user_id = $1 ORDER BY event_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list member events: %w", err)
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (uint, error) {
		var id int64
		err := row.Scan(&id)
		return uint(id), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan member events: %w", err)
	}
	return ids, nil
}
