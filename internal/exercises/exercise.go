package exercises

import (
	"context"
	"errors"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=exercises_test

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrExerciseInUse    = errors.New("exercise is used by workout sessions")
)

type Exercise struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Store persists exercises. Implemented by the postgres Repo and by the HTTP API client.
type Store interface {
	List(ctx context.Context) ([]Exercise, error)
	Add(ctx context.Context, name, category string) (*Exercise, error)
	Update(ctx context.Context, exercise Exercise) error
	Delete(ctx context.Context, id int) error
}
