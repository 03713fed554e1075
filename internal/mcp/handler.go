package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// WorkoutInput is the input for get_workout.
type WorkoutInput struct {
	UserID int    `json:"user_id" jsonschema:"Id of the user owning the workout"`
	Date   string `json:"date" jsonschema:"Workout date (YYYY-MM-DD)"`
}

// UserInput is the input for tools scoped to one user.
type UserInput struct {
	UserID int `json:"user_id" jsonschema:"Id of the user"`
}

// GetWorkoutTool returns the MCP tool handler for get_workout.
func (h *Handler) GetWorkoutTool() func(context.Context, *mcp.CallToolRequest, WorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutInput) (*mcp.CallToolResult, any, error) {
		sessions, err := h.service.Workout(ctx, in.UserID, in.Date)
		if err != nil {
			return errorResult("Error fetching workout: " + err.Error()), nil, nil
		}
		return jsonResult(sessions), nil, nil
	}
}

// ListWorkoutDatesTool returns the MCP tool handler for list_workout_dates.
func (h *Handler) ListWorkoutDatesTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		dates, err := h.service.WorkoutDates(ctx, in.UserID)
		if err != nil {
			return errorResult("Error fetching workout dates: " + err.Error()), nil, nil
		}
		return jsonResult(dates), nil, nil
	}
}

// ListExercisesTool returns the MCP tool handler for list_exercises.
func (h *Handler) ListExercisesTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		list, err := h.service.Exercises(ctx)
		if err != nil {
			return errorResult("Error listing exercises: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// GetWeeklyScheduleTool returns the MCP tool handler for get_weekly_schedule.
func (h *Handler) GetWeeklyScheduleTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		text, err := h.service.WeeklySchedule(ctx, in.UserID)
		if err != nil {
			return errorResult("Error fetching schedule: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
