package mcp

import (
	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/schedule"
	"github.com/2beens/workoutlog/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read-only workout tools. The backend mounts
// it at /mcp over the postgres repos; cmd/workout_mcp runs it over stdio on
// top of the API client.
func NewServer(workoutsStore workouts.Store, exercisesStore exercises.Store, scheduleStore schedule.Store) *mcp.Server {
	h := NewHandler(NewContextService(workoutsStore, exercisesStore, scheduleStore))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "workoutlog",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout",
		Description: "Returns the workout of a user on a date: sessions (exercise name, category) with their sets (weight, reps, completed), ordered by id. Args: user_id, date (YYYY-MM-DD).",
	}, h.GetWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workout_dates",
		Description: "Returns the dates (YYYY-MM-DD, ascending) on which the user logged at least one session. Arg: user_id.",
	}, h.ListWorkoutDatesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_exercises",
		Description: "Returns the exercise catalog (id, name, category) sorted by name.",
	}, h.ListExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weekly_schedule",
		Description: "Returns the user's weekly plan as a markdown table: target body part or rest day and a note for each day, Sunday first. Arg: user_id.",
	}, h.GetWeeklyScheduleTool())

	return s
}
