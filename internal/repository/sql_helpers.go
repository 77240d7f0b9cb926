package repository

import (
	"errors"

	portal_errors "rt-portal/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return false
}

// translateError maps driver level failures onto the portal error kinds.
// Unknown errors are returned untouched.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return portal_errors.ErrNotFound
	case isUniqueViolation(err):
		return portal_errors.ErrAlreadyExists
	case isForeignKeyViolation(err):
		return portal_errors.ErrNotFound
	default:
		return err
	}
}

// publicUserFields restricts a preloaded author to the fields safe to expose.
func publicUserFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "role", "profile")
}
