package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationError(t *testing.T) {
	assert.True(t, IsUniqueViolationError(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolationError(fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolationError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolationError(errors.New("23505")))
	assert.False(t, IsUniqueViolationError(nil))
}

func TestIsForeignKeyViolationError(t *testing.T) {
	assert.True(t, IsForeignKeyViolationError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolationError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolationError(errors.New("boom")))
}

func TestForeignKeyViolationConstraint(t *testing.T) {
	constraint, ok := ForeignKeyViolationConstraint(fmt.Errorf("insert session: %w", &pgconn.PgError{
		Code:           "23503",
		ConstraintName: "workout_sessions_user_id_fkey",
	}))
	assert.True(t, ok)
	assert.Equal(t, "workout_sessions_user_id_fkey", constraint)

	_, ok = ForeignKeyViolationConstraint(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	assert.False(t, ok)
	_, ok = ForeignKeyViolationConstraint(errors.New("boom"))
	assert.False(t, ok)
}
