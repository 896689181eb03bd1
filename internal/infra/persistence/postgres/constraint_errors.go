package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes this package reacts to.
const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
	pgStringTooLong    = "22001"
)

// Constraint names declared by the migrations.
const (
	constraintUsersEmail      = "users_email_key"
	constraintUsersUsername   = "users_username_key"
	constraintUsersNationalID = "users_national_id_key"
	constraintReviewsRating   = "reviews_rating_check"
)

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}

	return nil, false
}

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	// Check for GORM's duplicate key error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	pgErr, ok := asPgError(err)

	return ok && pgErr.Code == pgUniqueViolation
}

// violatedConstraint returns the constraint name reported by PostgreSQL, if any.
func violatedConstraint(err error) string {
	if pgErr, ok := asPgError(err); ok {
		return pgErr.ConstraintName
	}

	return ""
}

func isCheckConstraintViolation(err error) bool {
	// Check for GORM's check constraint violation error
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	pgErr, ok := asPgError(err)

	return ok && pgErr.Code == pgCheckViolation
}

func isNotNullConstraintViolation(err error) bool {
	pgErr, ok := asPgError(err)

	return ok && pgErr.Code == pgNotNullViolation
}

func isStringTooLong(err error) bool {
	pgErr, ok := asPgError(err)

	return ok && pgErr.Code == pgStringTooLong
}
