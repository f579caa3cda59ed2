package database

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"eventbot/internal/domain"
)

const (
	uniqueViolation = "23505"
	titleIndex      = "events_title_lower_key"
)

// mapEventError translates driver errors into domain errors where one applies.
func mapEventError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEventNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == titleIndex {
		return domain.Wrap(domain.ErrDuplicateTitle, err)
	}
	return err
}
