package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/jackc/pgx/v5"
)

var _ UserStore = (*UsersRepo)(nil)

type UsersRepo struct {
	db db.Conn
}

func NewUsersRepo(db db.Conn) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id;`,
		username, passwordHash,
	).Scan(&id); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

func (r *UsersRepo) ByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.by_username")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.queryUser(ctx, `SELECT id, username, password_hash FROM users WHERE username = $1;`, username)
}

func (r *UsersRepo) ByID(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.by_id")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.queryUser(ctx, `SELECT id, username, password_hash FROM users WHERE id = $1;`, id)
}

func (r *UsersRepo) queryUser(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	if err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
