package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/2beens/workoutlog/internal/schedule"
)

var _ schedule.Store = (*ScheduleClient)(nil)

type ScheduleClient struct {
	client *Client
}

func (c *ScheduleClient) List(ctx context.Context, userID int) ([]schedule.DayPlan, error) {
	plans := make([]schedule.DayPlan, 0)
	query := url.Values{"user_id": {strconv.Itoa(userID)}}
	if err := c.client.do(ctx, http.MethodGet, "/api/schedule", query, nil, &plans, nil); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *ScheduleClient) Upsert(ctx context.Context, userID, day int, input schedule.DayPlanInput) (*schedule.DayPlan, error) {
	if !schedule.ValidDay(day) {
		return nil, schedule.ErrInvalidDay
	}

	var plan schedule.DayPlan
	req := schedule.SaveDayPlanRequest{UserID: userID, DayPlanInput: input}
	if err := c.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/schedule/%d", day), nil, req, &plan, nil); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *ScheduleClient) Delete(ctx context.Context, userID, day int) error {
	if !schedule.ValidDay(day) {
		return schedule.ErrInvalidDay
	}

	query := url.Values{"user_id": {strconv.Itoa(userID)}}
	return c.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/schedule/%d", day), query, nil, nil, statusErrors{
		http.StatusNotFound: schedule.ErrDayPlanNotFound,
	})
}
