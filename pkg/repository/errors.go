package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres unique_violation.
const pgUniqueViolation = "23505"

// MapError translates low-level database failures into the caller's
// domain sentinels: sql.ErrNoRows becomes notFound and a postgres
// unique violation becomes duplicate. Anything else passes through
// unchanged for the handler's internal-error path.
func MapError(err error, notFound, duplicate error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return duplicate
	}

	return err
}
