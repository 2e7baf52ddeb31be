package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_study_sessions_one_active"}
	if !isUniqueViolation(fmt.Errorf("insert session: %w", uniqueErr)) {
		t.Error("Expected wrapped SQLSTATE 23505 to be detected")
	}

	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("Foreign key violation must not read as a unique violation")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Error("Plain errors must not read as unique violations")
	}
	if isUniqueViolation(nil) {
		t.Error("nil must not read as a unique violation")
	}
}
