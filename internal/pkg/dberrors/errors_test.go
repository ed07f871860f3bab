package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uk_users_phone"})

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsDuplicateConstraintError(err, "uk_users_phone"))
	assert.False(t, IsDuplicateConstraintError(err, "uk_users_email"))
	assert.False(t, IsForeignKeyViolation(err))
	assert.Equal(t, "uk_users_phone", ConstraintName(err))
}

func TestForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", ConstraintName: "fk_reports_module"}

	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))
}

func TestNonPostgresError(t *testing.T) {
	err := errors.New("boom")

	assert.False(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))
	assert.Empty(t, ConstraintName(err))
}
