package auth

import (
	"context"
	"errors"
)

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=auth_test

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrMissingCredentials  = errors.New("missing username or password")
	ErrSessionTokenMissing = errors.New("session token missing")
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// UserStore persists registered users.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	ByID(ctx context.Context, id int) (*User, error)
}
