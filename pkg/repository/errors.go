package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// MapError translates storage errors into domain errors: sql.ErrNoRows
// becomes notFoundErr and a PostgreSQL unique violation becomes conflictErr.
// Anything else passes through unchanged.
func MapError(err error, notFoundErr, conflictErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return conflictErr
	}

	return err
}
