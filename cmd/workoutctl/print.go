package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/schedule"
	"github.com/2beens/workoutlog/internal/workouts"

	"github.com/fatih/color"
)

var (
	faint = color.New(color.Faint)
	bold  = color.New(color.Bold)
	done  = color.New(color.FgGreen)
)

func printExercises(w io.Writer, list []exercises.Exercise) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No exercises yet.")
		return
	}
	for _, e := range list {
		fmt.Fprintf(w, "%s %s %s\n",
			faint.Sprintf("%4d", e.ID),
			padRight(e.Name, 24),
			faint.Sprint(e.Category))
	}
}

func printWorkout(w io.Writer, date string, sessions []workouts.SessionView) {
	bold.Fprintf(w, "Workout %s\n", date)
	if len(sessions) == 0 {
		fmt.Fprintln(w, "  No sessions.")
		return
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "  %s %s %s\n",
			faint.Sprintf("[%d]", s.ID),
			s.ExerciseName,
			faint.Sprintf("(%s)", s.ExerciseCategory))
		if len(s.Sets) == 0 {
			fmt.Fprintln(w, "      no sets")
		}
		for i, set := range s.Sets {
			fmt.Fprintf(w, "      %s %d. %s\n", faint.Sprintf("[%d]", set.ID), i+1, formatSet(set))
		}
	}
}

func formatSet(set workouts.SetView) string {
	line := fmt.Sprintf("%s kg x %d", formatWeight(set.Weight), set.Reps)
	if set.Completed {
		return done.Sprint(line + " ✓")
	}
	return line
}

// formatWeight drops the decimals of whole weights.
func formatWeight(weight float64) string {
	s := fmt.Sprintf("%.2f", weight)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func printSchedule(w io.Writer, plans map[int]schedule.DayPlan) {
	for day, name := range dayNames {
		plan, ok := plans[day]
		var what string
		switch {
		case !ok:
			what = faint.Sprint("-")
		case plan.IsRestDay:
			what = "Rest"
		default:
			what = plan.TargetBodyPart
		}
		line := fmt.Sprintf("%s %s", padRight(name, 10), what)
		if ok && plan.Note != "" {
			line += " " + faint.Sprintf("(%s)", plan.Note)
		}
		fmt.Fprintln(w, line)
	}
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
