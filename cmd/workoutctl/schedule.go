package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2beens/workoutlog/internal/schedule"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show and edit the weekly plan",
	Long: `Days are 0-6 starting on Sunday, or day names ("mon", "tuesday").`,
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the weekly plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}
		planner := newPlanner(s.UserID)
		if err := planner.Fetch(cmd.Context()); err != nil {
			return err
		}
		printSchedule(cmd.OutOrStdout(), planner.Plans())
		return nil
	},
}

var (
	planTarget string
	planRest   bool
	planNote   string
)

var scheduleSetCmd = &cobra.Command{
	Use:   "set <day>",
	Short: "Save the plan of a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}
		day, err := parseDay(args[0])
		if err != nil {
			return err
		}
		saved, err := newPlanner(s.UserID).SaveDayPlan(cmd.Context(), day, schedule.DayPlanInput{
			TargetBodyPart: planTarget,
			IsRestDay:      planRest,
			Note:           planNote,
		})
		if err != nil {
			return err
		}
		color.Green("✓ Saved %s", dayNames[saved.DayOfWeek])
		return nil
	},
}

var scheduleClearCmd = &cobra.Command{
	Use:   "clear <day>",
	Short: "Remove the plan of a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}
		day, err := parseDay(args[0])
		if err != nil {
			return err
		}
		if err := newPlanner(s.UserID).DeleteDayPlan(cmd.Context(), day); err != nil {
			return err
		}
		color.Green("✓ Cleared %s", dayNames[day])
		return nil
	},
}

func init() {
	scheduleSetCmd.Flags().StringVar(&planTarget, "target", "", "target body part")
	scheduleSetCmd.Flags().BoolVar(&planRest, "rest", false, "rest day")
	scheduleSetCmd.Flags().StringVar(&planNote, "note", "", "free text note")
	scheduleCmd.AddCommand(scheduleShowCmd, scheduleSetCmd, scheduleClearCmd)
}

func parseDay(raw string) (int, error) {
	if day, err := strconv.Atoi(raw); err == nil {
		if !schedule.ValidDay(day) {
			return 0, schedule.ErrInvalidDay
		}
		return day, nil
	}

	lowered := strings.ToLower(raw)
	if len(lowered) >= 3 {
		for i, name := range dayNames {
			if strings.HasPrefix(strings.ToLower(name), lowered) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q", raw)
}
