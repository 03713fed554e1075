package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/workouts"
)

var _ workouts.Store = (*WorkoutsClient)(nil)

type WorkoutsClient struct {
	client *Client
}

func (c *WorkoutsClient) ListSessions(ctx context.Context, userID int, date string) ([]workouts.SessionView, error) {
	if _, err := workouts.ParseDate(date); err != nil {
		return nil, err
	}

	sessions := make([]workouts.SessionView, 0)
	query := url.Values{
		"date":    {date},
		"user_id": {strconv.Itoa(userID)},
	}
	if err := c.client.do(ctx, http.MethodGet, "/api/workouts", query, nil, &sessions, nil); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *WorkoutsClient) AddSession(ctx context.Context, userID, exerciseID int, date string) (workouts.NewSessionIDs, error) {
	if _, err := workouts.ParseDate(date); err != nil {
		return workouts.NewSessionIDs{}, err
	}

	var ids workouts.NewSessionIDs
	req := workouts.AddSessionRequest{UserID: userID, ExerciseID: exerciseID, Date: date}
	if err := c.client.do(ctx, http.MethodPost, "/api/workouts/session", nil, req, &ids, statusErrors{
		http.StatusNotFound:            exercises.ErrExerciseNotFound,
		http.StatusUnprocessableEntity: workouts.ErrUserNotFound,
	}); err != nil {
		return workouts.NewSessionIDs{}, err
	}
	return ids, nil
}

func (c *WorkoutsClient) DeleteSession(ctx context.Context, sessionID int) error {
	return c.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/workouts/session/%d", sessionID), nil, nil, nil, statusErrors{
		http.StatusNotFound: workouts.ErrSessionNotFound,
	})
}

func (c *WorkoutsClient) AddSet(ctx context.Context, sessionID int) (int, error) {
	var resp workouts.AddSetResponse
	req := workouts.AddSetRequest{SessionID: sessionID}
	if err := c.client.do(ctx, http.MethodPost, "/api/workouts/set", nil, req, &resp, statusErrors{
		http.StatusNotFound: workouts.ErrSessionNotFound,
	}); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *WorkoutsClient) DeleteSet(ctx context.Context, setID int) error {
	return c.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/workouts/set/%d", setID), nil, nil, nil, statusErrors{
		http.StatusNotFound: workouts.ErrSetNotFound,
	})
}

func (c *WorkoutsClient) UpdateSet(ctx context.Context, setID int, update workouts.SetUpdate) error {
	if update.IsEmpty() {
		return workouts.ErrEmptySetUpdate
	}
	return c.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/workouts/set/%d", setID), nil, update, nil, statusErrors{
		http.StatusNotFound: workouts.ErrSetNotFound,
	})
}

func (c *WorkoutsClient) ListDates(ctx context.Context, userID int) ([]string, error) {
	dates := make([]string, 0)
	query := url.Values{"user_id": {strconv.Itoa(userID)}}
	if err := c.client.do(ctx, http.MethodGet, "/api/workouts/dates", query, nil, &dates, nil); err != nil {
		return nil, err
	}
	return dates, nil
}
