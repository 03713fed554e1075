package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// seedExercises are added to the catalog when missing, name -> category.
var seedExercises = map[string]string{
	"Squat":          "Legs",
	"Deadlift":       "Back",
	"Bench Press":    "Chest",
	"Overhead Press": "Shoulders",
	"Barbell Row":    "Back",
	"Pull Up":        "Back",
	"Bicep Curl":     "Arms",
}

var (
	seedDays  int
	seedValue int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the account with random demo workouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		catalog := newCatalog()
		byName, err := ensureSeedExercises(ctx, catalog)
		if err != nil {
			return err
		}

		plan := buildSeedPlan(gofakeit.New(seedValue), time.Now(), seedDays)
		agg := newAggregator()
		for _, w := range plan {
			for _, entry := range w.Entries {
				if err := seedEntry(ctx, agg, w.Date, s.UserID, byName[entry.Exercise], entry.Sets); err != nil {
					return err
				}
			}
			color.Green("✓ Seeded %s (%d exercises)", w.Date, len(w.Entries))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedDays, "days", 5, "number of workout dates to create")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "random seed, 0 for a random one")
}

type seedWorkout struct {
	Date    string
	Entries []seedWorkoutEntry
}

type seedWorkoutEntry struct {
	Exercise string
	Sets     []workouts.SetUpdate
}

// buildSeedPlan picks distinct past dates within the last 60 days and random sessions for each.
func buildSeedPlan(faker *gofakeit.Faker, now time.Time, days int) []seedWorkout {
	names := make([]string, 0, len(seedExercises))
	for name := range seedExercises {
		names = append(names, name)
	}
	sort.Strings(names)

	if days > 60 {
		days = 60
	}
	picked := make(map[string]bool, days)
	plan := make([]seedWorkout, 0, days)
	for len(plan) < days {
		date := now.AddDate(0, 0, -faker.Number(1, 60)).Format(workouts.DateLayout)
		if picked[date] {
			continue
		}
		picked[date] = true

		w := seedWorkout{Date: date}
		for _, name := range pickDistinct(faker, names, faker.Number(1, 3)) {
			entry := seedWorkoutEntry{Exercise: name}
			for i := faker.Number(1, 4); i > 0; i-- {
				weight := float64(faker.Number(8, 60)) * 2.5
				reps := faker.Number(3, 12)
				completed := faker.Bool()
				entry.Sets = append(entry.Sets, workouts.SetUpdate{
					Weight:    &weight,
					Reps:      &reps,
					Completed: &completed,
				})
			}
			w.Entries = append(w.Entries, entry)
		}
		plan = append(plan, w)
	}

	sort.Slice(plan, func(i, j int) bool { return plan[i].Date < plan[j].Date })
	return plan
}

func pickDistinct(faker *gofakeit.Faker, from []string, n int) []string {
	shuffled := append([]string(nil), from...)
	faker.ShuffleStrings(shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

func ensureSeedExercises(ctx context.Context, catalog *exercises.Catalog) (map[string]exercises.Exercise, error) {
	list, err := catalog.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]exercises.Exercise, len(seedExercises))
	for _, e := range list {
		byName[e.Name] = e
	}
	for name, category := range seedExercises {
		if _, ok := byName[name]; ok {
			continue
		}
		added, err := catalog.Add(ctx, name, category)
		if err != nil {
			return nil, fmt.Errorf("seed exercise %s: %w", name, err)
		}
		byName[name] = added
	}
	return byName, nil
}

// seedEntry adds a session and fills its seed set before appending the rest.
func seedEntry(ctx context.Context, agg *workouts.Aggregator, date string, userID int, exercise exercises.Exercise, sets []workouts.SetUpdate) error {
	session, err := agg.AddSession(ctx, date, userID, exercise)
	if err != nil {
		return err
	}

	setID := session.Sets[0].ID
	for i, update := range sets {
		if i > 0 {
			set, err := agg.AddSet(ctx, date, session.ID)
			if err != nil {
				return err
			}
			setID = set.ID
		}
		if err := agg.UpdateSet(ctx, date, session.ID, setID, update); err != nil {
			return err
		}
	}
	return nil
}
