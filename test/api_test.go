//go:build integration_test

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/workoutlog/internal/apiclient"
	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/schedule"
	"github.com/2beens/workoutlog/internal/workouts"
	"github.com/2beens/workoutlog/pkg"

	"github.com/brianvoe/gofakeit/v6"
)

func (s *IntegrationTestSuite) loggedInClient(ctx context.Context) (*apiclient.Client, *auth.LoginResponse) {
	client := s.newClient()
	creds := auth.Credentials{
		Username: gofakeit.Username() + gofakeit.DigitN(6),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}

	_, err := client.Register(ctx, creds)
	s.Require().NoError(err)

	loginResp, err := client.Login(ctx, creds)
	s.Require().NoError(err)
	s.Require().NotEmpty(loginResp.Token)
	s.Equal(creds.Username, loginResp.Username)

	return client, loginResp
}

func (s *IntegrationTestSuite) TestAuth_RegisterLoginLogout() {
	ctx := context.Background()
	client := s.newClient()
	creds := auth.Credentials{Username: "alice-" + gofakeit.DigitN(6), Password: "pw1"}

	user, err := client.Register(ctx, creds)
	s.Require().NoError(err)
	s.Equal(creds.Username, user.Username)

	_, err = client.Register(ctx, creds)
	s.True(errors.Is(err, auth.ErrUsernameTaken))

	loginResp, err := client.Login(ctx, creds)
	s.Require().NoError(err)
	s.Equal(user.ID, loginResp.ID)

	profile, err := client.Profile(ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(creds.Username, profile.Username)

	s.Require().NoError(client.Logout(ctx))

	// the token is gone, protected routes refuse the old one
	client.SetToken(loginResp.Token)
	_, err = client.Exercises().List(ctx)
	s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err))
}

func (s *IntegrationTestSuite) TestAuth_InvalidCredentials() {
	ctx := context.Background()
	client := s.newClient()
	creds := auth.Credentials{Username: "bob-" + gofakeit.DigitN(6), Password: "pw1"}
	_, err := client.Register(ctx, creds)
	s.Require().NoError(err)

	_, err = client.Login(ctx, auth.Credentials{Username: creds.Username, Password: "wrong"})
	s.True(errors.Is(err, auth.ErrInvalidCredentials))

	body, err := json.Marshal(auth.Credentials{Username: creds.Username, Password: "wrong"})
	s.Require().NoError(err)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/api/auth/login", bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	var errResp pkg.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Invalid credentials", errResp.Error)
}

func (s *IntegrationTestSuite) TestProtectedRoutes_RequireToken() {
	_, err := s.newClient().Exercises().List(context.Background())
	s.Equal(http.StatusUnauthorized, apiclient.StatusCode(err))
}

func (s *IntegrationTestSuite) TestExercises_Catalog() {
	ctx := context.Background()
	client, _ := s.loggedInClient(ctx)
	catalog := exercises.NewCatalog(client.Exercises())

	name := "Squat " + gofakeit.DigitN(6)
	added, err := catalog.Add(ctx, name, "Legs")
	s.Require().NoError(err)

	list, err := catalog.Fetch(ctx)
	s.Require().NoError(err)
	s.Contains(list, exercises.Exercise{ID: added.ID, Name: name, Category: "Legs"})

	s.Require().NoError(catalog.Update(ctx, added.ID, name+" (high bar)", "Legs"))
	found, ok := catalog.Find(added.ID)
	s.True(ok)
	s.Equal(name+" (high bar)", found.Name)

	s.Require().NoError(catalog.Delete(ctx, added.ID))
	_, ok = catalog.Find(added.ID)
	s.False(ok)
}

func (s *IntegrationTestSuite) TestWorkouts_SessionsAndSets() {
	ctx := context.Background()
	client, loginResp := s.loggedInClient(ctx)
	userID := loginResp.ID
	date := "2024-05-01"

	exercise, err := exercises.NewCatalog(client.Exercises()).Add(ctx, "Bench "+gofakeit.DigitN(6), "Chest")
	s.Require().NoError(err)

	agg := workouts.NewAggregator(client.Workouts(), workouts.NewCache(1<<20))

	session, err := agg.AddSession(ctx, date, userID, exercise)
	s.Require().NoError(err)
	s.Require().Len(session.Sets, 1)

	fetched, err := agg.FetchWorkout(ctx, date, userID)
	s.Require().NoError(err)
	s.Require().Len(fetched, 1)
	s.Equal(session.ID, fetched[0].ID)
	s.Equal([]workouts.SetView{{ID: session.Sets[0].ID}}, fetched[0].Sets)

	reps := 5
	s.Require().NoError(agg.UpdateSet(ctx, date, session.ID, session.Sets[0].ID, workouts.SetUpdate{Reps: &reps}))
	weight := 82.5
	s.Require().NoError(agg.UpdateSet(ctx, date, session.ID, session.Sets[0].ID, workouts.SetUpdate{Weight: &weight}))

	second, err := agg.AddSet(ctx, date, session.ID)
	s.Require().NoError(err)

	fetched, err = agg.FetchWorkout(ctx, date, userID)
	s.Require().NoError(err)
	s.Require().Len(fetched, 1)
	s.Equal([]workouts.SetView{
		{ID: session.Sets[0].ID, Weight: 82.5, Reps: 5},
		{ID: second.ID},
	}, fetched[0].Sets)

	dates, err := agg.FetchWorkoutDates(ctx, userID)
	s.Require().NoError(err)
	s.Equal([]string{date}, dates)

	s.Require().NoError(agg.RemoveSet(ctx, date, session.ID, session.Sets[0].ID))
	s.Require().NoError(agg.RemoveSet(ctx, date, session.ID, second.ID))
	fetched, err = agg.FetchWorkout(ctx, date, userID)
	s.Require().NoError(err)
	s.Require().Len(fetched, 1)
	s.Empty(fetched[0].Sets)

	// an exercise used by a session cannot be deleted
	err = client.Exercises().Delete(ctx, exercise.ID)
	s.Error(err)

	s.Require().NoError(agg.RemoveSession(ctx, date, session.ID))
	fetched, err = agg.FetchWorkout(ctx, date, userID)
	s.Require().NoError(err)
	s.Empty(fetched)

	dates, err = agg.FetchWorkoutDates(ctx, userID)
	s.Require().NoError(err)
	s.Empty(dates)
}

func (s *IntegrationTestSuite) TestSchedule_SaveTwiceOverwrites() {
	ctx := context.Background()
	client, loginResp := s.loggedInClient(ctx)
	planner := schedule.NewPlanner(client.Schedule(), loginResp.ID)

	_, err := planner.SaveDayPlan(ctx, 1, schedule.DayPlanInput{TargetBodyPart: "Legs"})
	s.Require().NoError(err)
	_, err = planner.SaveDayPlan(ctx, 1, schedule.DayPlanInput{TargetBodyPart: "Back", Note: "deadlifts"})
	s.Require().NoError(err)
	_, err = planner.SaveDayPlan(ctx, 0, schedule.DayPlanInput{IsRestDay: true})
	s.Require().NoError(err)

	s.Require().NoError(planner.Fetch(ctx))
	plans := planner.Plans()
	s.Len(plans, 2)
	s.Equal("Back", plans[1].TargetBodyPart)
	s.Equal("deadlifts", plans[1].Note)
	s.True(plans[0].IsRestDay)

	s.Require().NoError(planner.DeleteDayPlan(ctx, 1))
	s.Require().NoError(planner.Fetch(ctx))
	_, ok := planner.DayPlan(1)
	s.False(ok)
}
