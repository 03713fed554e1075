package workouts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=workouts_test

const DateLayout = "2006-01-02"

var (
	ErrSessionNotFound = errors.New("workout session not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSetNotFound     = errors.New("workout set not found")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrEmptySetUpdate  = errors.New("no set fields to update")
)

// SessionView is one exercise done on a workout date, together with its sets.
type SessionView struct {
	ID               int       `json:"id"`
	ExerciseID       int       `json:"exercise_id"`
	WorkoutDate      string    `json:"workout_date"`
	ExerciseName     string    `json:"exerciseName"`
	ExerciseCategory string    `json:"exerciseCategory"`
	Sets             []SetView `json:"sets"`
}

type SetView struct {
	ID        int     `json:"id"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// NewSessionIDs are the ids of a created session and its seed set.
type NewSessionIDs struct {
	SessionID int `json:"sessionId"`
	SetID     int `json:"setId"`
}

// Store persists workout sessions and sets. Implemented by the postgres Repo
// and by the HTTP API client.
type Store interface {
	ListSessions(ctx context.Context, userID int, date string) ([]SessionView, error)
	// AddSession creates the session and its single zero-valued seed set.
	AddSession(ctx context.Context, userID, exerciseID int, date string) (NewSessionIDs, error)
	DeleteSession(ctx context.Context, sessionID int) error
	AddSet(ctx context.Context, sessionID int) (int, error)
	DeleteSet(ctx context.Context, setID int) error
	UpdateSet(ctx context.Context, setID int, update SetUpdate) error
	ListDates(ctx context.Context, userID int) ([]string, error)
}

// ParseDate validates a YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// sortSessions orders sessions and each session's sets by ascending id, in place.
func sortSessions(sessions []SessionView) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})
	for i := range sessions {
		sets := sessions[i].Sets
		sort.Slice(sets, func(a, b int) bool {
			return sets[a].ID < sets[b].ID
		})
	}
}

func cloneSessions(sessions []SessionView) []SessionView {
	if sessions == nil {
		return nil
	}
	cloned := make([]SessionView, len(sessions))
	for i, s := range sessions {
		cloned[i] = s
		cloned[i].Sets = append(make([]SetView, 0, len(s.Sets)), s.Sets...)
	}
	return cloned
}
