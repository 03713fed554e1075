package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/schedule"
	"github.com/2beens/workoutlog/internal/workouts"
)

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// contextService provides the workout data exposed by the tools.
type contextService interface {
	Workout(ctx context.Context, userID int, date string) ([]workouts.SessionView, error)
	WorkoutDates(ctx context.Context, userID int) ([]string, error)
	Exercises(ctx context.Context) ([]exercises.Exercise, error)
	WeeklySchedule(ctx context.Context, userID int) (string, error)
}

// ContextService reads workout data through the stores, either postgres repos
// on the backend or the API client.
type ContextService struct {
	workouts  workouts.Store
	exercises exercises.Store
	schedule  schedule.Store
}

func NewContextService(workoutsStore workouts.Store, exercisesStore exercises.Store, scheduleStore schedule.Store) *ContextService {
	return &ContextService{
		workouts:  workoutsStore,
		exercises: exercisesStore,
		schedule:  scheduleStore,
	}
}

func (s *ContextService) Workout(ctx context.Context, userID int, date string) ([]workouts.SessionView, error) {
	if _, err := workouts.ParseDate(date); err != nil {
		return nil, err
	}
	return s.workouts.ListSessions(ctx, userID, date)
}

func (s *ContextService) WorkoutDates(ctx context.Context, userID int) ([]string, error) {
	return s.workouts.ListDates(ctx, userID)
}

func (s *ContextService) Exercises(ctx context.Context) ([]exercises.Exercise, error) {
	return s.exercises.List(ctx)
}

// WeeklySchedule renders the user's plan as a markdown table, one row per day.
func (s *ContextService) WeeklySchedule(ctx context.Context, userID int) (string, error) {
	plans, err := s.schedule.List(ctx, userID)
	if err != nil {
		return "", err
	}
	return formatWeeklySchedule(plans), nil
}

func formatWeeklySchedule(plans []schedule.DayPlan) string {
	byDay := make(map[int]schedule.DayPlan, len(plans))
	for _, p := range plans {
		byDay[p.DayOfWeek] = p
	}

	var b strings.Builder
	b.WriteString("# Weekly Schedule\n\n")
	b.WriteString("| Day | Target | Note |\n|-----|--------|------|\n")
	for day, name := range dayNames {
		p, ok := byDay[day]
		target := "-"
		switch {
		case !ok:
		case p.IsRestDay:
			target = "Rest"
		case p.TargetBodyPart != "":
			target = p.TargetBodyPart
		}
		note := "-"
		if ok && p.Note != "" {
			note = p.Note
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", name, target, note))
	}

	return b.String()
}
