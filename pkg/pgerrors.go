package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// postgres SQLSTATE codes, https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeForeignKeyViolation = "23503"
	pgCodeUniqueViolation     = "23505"
)

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsUniqueViolationError reports a duplicate key, e.g. a taken username.
func IsUniqueViolationError(err error) bool {
	return hasPgCode(err, pgCodeUniqueViolation)
}

// ForeignKeyViolationConstraint returns the name of the violated foreign key
// constraint, e.g. workout_sessions_user_id_fkey.
func ForeignKeyViolationConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgCodeForeignKeyViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// IsForeignKeyViolationError reports a missing or still referenced row,
// e.g. a set for a deleted session or an exercise with logged sessions.
func IsForeignKeyViolationError(err error) bool {
	return hasPgCode(err, pgCodeForeignKeyViolation)
}
