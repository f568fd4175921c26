package repository

import (
	"errors"

	"sales-management/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	numericOutOfRange   = "22003"
)

// ErrValueOutOfRange reports a number that does not fit its column
var ErrValueOutOfRange = domain.InvalidInput("numeric value out of range")

// isUniqueViolation reports a duplicate key error from either the pgx or the lib/pq driver.
func isUniqueViolation(err error) bool {
	return hasSQLState(err, uniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return hasSQLState(err, foreignKeyViolation)
}

func isOutOfRange(err error) bool {
	return hasSQLState(err, numericOutOfRange)
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
