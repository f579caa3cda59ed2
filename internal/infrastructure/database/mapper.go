package database

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"eventbot/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func stringToText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

const eventColumns = `id, title, message_id, channel_id, creator_id, date, with_time,
	private_channel_id, role_id, max_slots, reminded_at, created_at, updated_at`

func scanEvent(row pgx.Row) (entities.Event, error) {
	var (
		id                       int64
		e                        entities.Event
		date, remindedAt         pgtype.Timestamptz
		createdAt, updatedAt     pgtype.Timestamptz
		privateChannelID, roleID pgtype.Text
		maxSlots                 int32
	)
	err := row.Scan(&id, &e.Title, &e.MessageID, &e.ChannelID, &e.CreatorID, &date, &e.WithTime,
		&privateChannelID, &roleID, &maxSlots, &remindedAt, &createdAt, &updatedAt)
	if err != nil {
		return entities.Event{}, err
	}
	e.ID = uint(id)
	e.Date = pgtypeTimestamptzToTime(date)
	e.PrivateChannelID = privateChannelID.String
	e.RoleID = roleID.String
	e.MaxSlots = int(maxSlots)
	e.RemindedAt = pgtypeTimestamptzToTime(remindedAt)
	e.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	e.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return e, nil
}
