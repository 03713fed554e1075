package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalog",
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := newCatalog().Fetch(cmd.Context())
		if err != nil {
			return err
		}
		printExercises(cmd.OutOrStdout(), list)
		return nil
	},
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name> [category]",
	Short: "Add an exercise",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := ""
		if len(args) > 1 {
			category = args[1]
		}
		ex, err := newCatalog().Add(cmd.Context(), args[0], category)
		if err != nil {
			return err
		}
		color.Green("✓ Added %s (id %d)", ex.Name, ex.ID)
		return nil
	},
}

var exerciseUpdateCmd = &cobra.Command{
	Use:   "update <id> <name> [category]",
	Short: "Rename or recategorize an exercise",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("exercise id", args[0])
		if err != nil {
			return err
		}
		category := ""
		if len(args) > 2 {
			category = args[2]
		}

		if err := newCatalog().Update(cmd.Context(), id, args[1], category); err != nil {
			return err
		}
		color.Green("✓ Updated exercise %d", id)
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an exercise",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("exercise id", args[0])
		if err != nil {
			return err
		}
		if err := newCatalog().Delete(cmd.Context(), id); err != nil {
			return err
		}
		color.Green("✓ Deleted exercise %d", id)
		return nil
	},
}

func init() {
	exerciseCmd.AddCommand(exerciseListCmd, exerciseAddCmd, exerciseUpdateCmd, exerciseDeleteCmd)
}

func parseID(what, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", what, raw)
	}
	return id, nil
}
