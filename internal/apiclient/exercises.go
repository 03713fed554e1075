package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/workoutlog/internal/exercises"
)

var _ exercises.Store = (*ExercisesClient)(nil)

type ExercisesClient struct {
	client *Client
}

func (c *ExercisesClient) List(ctx context.Context) ([]exercises.Exercise, error) {
	list := make([]exercises.Exercise, 0)
	if err := c.client.do(ctx, http.MethodGet, "/api/exercises", nil, nil, &list, nil); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *ExercisesClient) Add(ctx context.Context, name, category string) (*exercises.Exercise, error) {
	var added exercises.Exercise
	req := exercises.ExerciseRequest{Name: name, Category: category}
	if err := c.client.do(ctx, http.MethodPost, "/api/exercises", nil, req, &added, nil); err != nil {
		return nil, err
	}
	return &added, nil
}

func (c *ExercisesClient) Update(ctx context.Context, exercise exercises.Exercise) error {
	req := exercises.ExerciseRequest{Name: exercise.Name, Category: exercise.Category}
	return c.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/exercises/%d", exercise.ID), nil, req, nil, statusErrors{
		http.StatusNotFound: exercises.ErrExerciseNotFound,
	})
}

func (c *ExercisesClient) Delete(ctx context.Context, id int) error {
	return c.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/exercises/%d", id), nil, nil, nil, statusErrors{
		http.StatusNotFound: exercises.ErrExerciseNotFound,
		http.StatusConflict: exercises.ErrExerciseInUse,
	})
}
