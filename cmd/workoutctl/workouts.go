package main

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/workouts"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Show and edit workouts",
	Long: `A workout is the list of exercise sessions done on a date (YYYY-MM-DD or "today").
Every new session starts with one empty set.`,
}

var workoutShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the workout of a date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}
		date := dateArg(args, 0)
		sessions, err := newAggregator().FetchWorkout(cmd.Context(), date, s.UserID)
		if err != nil {
			return err
		}
		printWorkout(cmd.OutOrStdout(), date, sessions)
		return nil
	},
}

var workoutDatesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the dates with workouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}
		dates, err := newAggregator().FetchWorkoutDates(cmd.Context(), s.UserID)
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No workouts yet.")
			return nil
		}
		for _, d := range dates {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <date> <exercise-id>",
	Short: "Add an exercise session to a workout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exerciseID, err := parseID("exercise id", args[1])
		if err != nil {
			return err
		}

		catalog := newCatalog()
		if _, err := catalog.Fetch(cmd.Context()); err != nil {
			return err
		}
		exercise, ok := catalog.Find(exerciseID)
		if !ok {
			return fmt.Errorf("exercise %d not found", exerciseID)
		}

		return editWorkout(cmd, dateArg(args, 0), func(ctx context.Context, agg *workouts.Aggregator, date string, userID int) error {
			session, err := agg.AddSession(ctx, date, userID, exercise)
			if err != nil {
				return err
			}
			color.Green("✓ Added %s (session %d)", session.ExerciseName, session.ID)
			return nil
		})
	},
}

var workoutRemoveCmd = &cobra.Command{
	Use:     "remove <date> <session-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a session and its sets",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := parseID("session id", args[1])
		if err != nil {
			return err
		}
		return editWorkout(cmd, dateArg(args, 0), func(ctx context.Context, agg *workouts.Aggregator, date string, _ int) error {
			if err := agg.RemoveSession(ctx, date, sessionID); err != nil {
				return err
			}
			color.Green("✓ Removed session %d", sessionID)
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit the sets of a session",
}

var setAddCmd = &cobra.Command{
	Use:   "add <date> <session-id>",
	Short: "Add an empty set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := parseID("session id", args[1])
		if err != nil {
			return err
		}
		return editWorkout(cmd, dateArg(args, 0), func(ctx context.Context, agg *workouts.Aggregator, date string, _ int) error {
			set, err := agg.AddSet(ctx, date, sessionID)
			if err != nil {
				return err
			}
			color.Green("✓ Added set %d", set.ID)
			return nil
		})
	},
}

var (
	setWeight    float64
	setReps      int
	setCompleted bool
)

var setUpdateCmd = &cobra.Command{
	Use:   "update <date> <session-id> <set-id>",
	Short: "Change weight, reps or completion of a set",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := parseID("session id", args[1])
		if err != nil {
			return err
		}
		setID, err := parseID("set id", args[2])
		if err != nil {
			return err
		}

		var update workouts.SetUpdate
		if cmd.Flags().Changed("weight") {
			update.Weight = &setWeight
		}
		if cmd.Flags().Changed("reps") {
			update.Reps = &setReps
		}
		if cmd.Flags().Changed("completed") {
			update.Completed = &setCompleted
		}
		if update.IsEmpty() {
			return workouts.ErrEmptySetUpdate
		}

		return editWorkout(cmd, dateArg(args, 0), func(ctx context.Context, agg *workouts.Aggregator, date string, _ int) error {
			if err := agg.UpdateSet(ctx, date, sessionID, setID, update); err != nil {
				return err
			}
			color.Green("✓ Updated set %d", setID)
			return nil
		})
	},
}

var setRemoveCmd = &cobra.Command{
	Use:     "remove <date> <session-id> <set-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a set",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := parseID("session id", args[1])
		if err != nil {
			return err
		}
		setID, err := parseID("set id", args[2])
		if err != nil {
			return err
		}
		return editWorkout(cmd, dateArg(args, 0), func(ctx context.Context, agg *workouts.Aggregator, date string, _ int) error {
			if err := agg.RemoveSet(ctx, date, sessionID, setID); err != nil {
				return err
			}
			color.Green("✓ Removed set %d", setID)
			return nil
		})
	},
}

func init() {
	workoutCmd.AddCommand(workoutShowCmd, workoutDatesCmd, workoutAddCmd, workoutRemoveCmd)

	setUpdateCmd.Flags().Float64Var(&setWeight, "weight", 0, "weight")
	setUpdateCmd.Flags().IntVar(&setReps, "reps", 0, "repetitions")
	setUpdateCmd.Flags().BoolVar(&setCompleted, "completed", false, "mark the set as done")
	setCmd.AddCommand(setAddCmd, setUpdateCmd, setRemoveCmd)
}

type workoutEdit func(ctx context.Context, agg *workouts.Aggregator, date string, userID int) error

// editWorkout loads the date into the cache, applies edit and prints the cached result.
func editWorkout(cmd *cobra.Command, date string, edit workoutEdit) error {
	s, err := requireSession()
	if err != nil {
		return err
	}
	if _, err := workouts.ParseDate(date); err != nil {
		return err
	}

	ctx := cmd.Context()
	agg := newAggregator()
	if _, err := agg.FetchWorkout(ctx, date, s.UserID); err != nil {
		return err
	}
	if err := edit(ctx, agg, date, s.UserID); err != nil {
		return err
	}

	if sessions, ok := agg.Workout(date); ok {
		printWorkout(cmd.OutOrStdout(), date, sessions)
	}
	return nil
}

// dateArg reads args[i] as a date; missing or "today" means the local current date.
func dateArg(args []string, i int) string {
	if i >= len(args) || args[i] == "today" {
		return time.Now().Format(workouts.DateLayout)
	}
	return args[i]
}
