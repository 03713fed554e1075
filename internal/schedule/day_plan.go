package schedule

import (
	"context"
	"errors"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=schedule_test

var (
	ErrInvalidDay      = errors.New("day of week must be between 0 and 6")
	ErrDayPlanNotFound = errors.New("day plan not found")
)

// DayPlan is the plan for one day of the week, 0 = Sunday.
type DayPlan struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id"`
	DayOfWeek      int    `json:"day_of_week"`
	TargetBodyPart string `json:"target_body_part"`
	IsRestDay      bool   `json:"is_rest_day"`
	Note           string `json:"note"`
}

type DayPlanInput struct {
	TargetBodyPart string `json:"target_body_part"`
	IsRestDay      bool   `json:"is_rest_day"`
	Note           string `json:"note"`
}

func ValidDay(day int) bool {
	return day >= 0 && day <= 6
}

// Store persists weekly schedules. Implemented by the postgres Repo and by the HTTP API client.
type Store interface {
	List(ctx context.Context, userID int) ([]DayPlan, error)
	Upsert(ctx context.Context, userID, day int, input DayPlanInput) (*DayPlan, error)
	Delete(ctx context.Context, userID, day int) error
}
