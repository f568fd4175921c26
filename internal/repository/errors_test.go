package repository

import (
	"errors"
	"fmt"
	"testing"

	"sales-management/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestSQLStateDetection(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		outOfRange bool
	}{
		{"pgx unique", &pgconn.PgError{Code: uniqueViolation}, true, false, false},
		{"pgx foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: foreignKeyViolation}), false, true, false},
		{"pgx out of range", &pgconn.PgError{Code: numericOutOfRange}, false, false, true},
		{"pq out of range", &pq.Error{Code: numericOutOfRange}, false, false, true},
		{"plain error", errors.New("boom"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("isUniqueViolation = %v", got)
			}
			if got := isForeignKeyViolation(tt.err); got != tt.foreignKey {
				t.Errorf("isForeignKeyViolation = %v", got)
			}
			if got := isOutOfRange(tt.err); got != tt.outOfRange {
				t.Errorf("isOutOfRange = %v", got)
			}
		})
	}

	if !errors.Is(ErrValueOutOfRange, domain.ErrInvalidInput) {
		t.Error("out of range must be an invalid input error")
	}
}
