package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgDuplicateKeyCode = "23505"
	pgRestrictCode     = "23001"
	pgForeignKeyCode   = "23503"
)

// MapError translates database errors to domain errors.
// It maps sql.ErrNoRows to notFoundErr and PostgreSQL unique violation (23505)
// to duplicateErr. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	if pgCode(err) == pgDuplicateKeyCode {
		return duplicateErr
	}

	return err
}

// IsRestricted reports whether err is a restrict violation (23001), raised
// by triggers that forbid modifying append-only tables.
func IsRestricted(err error) bool {
	return pgCode(err) == pgRestrictCode
}

// IsForeignKey reports whether err is a foreign key violation (23503).
func IsForeignKey(err error) bool {
	return pgCode(err) == pgForeignKeyCode
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
