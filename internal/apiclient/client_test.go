package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/schedule"
	"github.com/2beens/workoutlog/internal/workouts"
	"github.com/2beens/workoutlog/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	token  string
	body   string
}

type requestLog struct {
	mutex    sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(req recordedRequest) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.requests = append(l.requests, req)
}

func (l *requestLog) all() []recordedRequest {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]recordedRequest(nil), l.requests...)
}

// newTestAPI serves a canned response per "METHOD /path" and records the requests.
func newTestAPI(t *testing.T, responses map[string]func(w http.ResponseWriter)) (*Client, *requestLog) {
	t.Helper()
	recorded := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		recorded.add(recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			token:  r.Header.Get(middleware.AuthTokenHeader),
			body:   string(body),
		})
		respond, ok := responses[r.Method+" "+r.URL.Path]
		if !ok {
			pkg.WriteJSONError(w, "not found", http.StatusNotFound)
			return
		}
		respond(w)
	}))
	t.Cleanup(server.Close)
	return New(server.URL+"/", server.Client()), recorded
}

func respondJSON(v any, status int) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		pkg.WriteJSON(w, v, status)
	}
}

func TestClient_APIError(t *testing.T) {
	client, _ := newTestAPI(t, map[string]func(w http.ResponseWriter){
		"GET /api/exercises": respondJSON(pkg.ErrorResponse{Error: "boom"}, http.StatusInternalServerError),
	})

	_, err := client.Exercises().List(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, 0, StatusCode(errors.New("other")))
}

func TestClient_Auth(t *testing.T) {
	client, recorded := newTestAPI(t, map[string]func(w http.ResponseWriter){
		"POST /api/auth/register": respondJSON(auth.User{ID: 1, Username: "alice"}, http.StatusCreated),
		"POST /api/auth/login":    respondJSON(auth.LoginResponse{ID: 1, Username: "alice", Token: "tkn"}, http.StatusOK),
		"GET /api/auth/logout":    respondJSON(pkg.SuccessResponse{Success: true}, http.StatusOK),
		"GET /api/auth/profile":   respondJSON(auth.User{ID: 1, Username: "alice"}, http.StatusOK),
	})
	ctx := context.Background()
	creds := auth.Credentials{Username: "alice", Password: "pw1"}

	user, err := client.Register(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	loginResp, err := client.Login(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, "tkn", loginResp.Token)
	assert.Equal(t, "tkn", client.Token())

	profile, err := client.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.ID)

	require.NoError(t, client.Logout(ctx))
	assert.Empty(t, client.Token())
	assert.ErrorIs(t, client.Logout(ctx), auth.ErrSessionTokenMissing)

	require.Len(t, recorded.all(), 4)
	assert.JSONEq(t, `{"username":"alice","password":"pw1"}`, recorded.all()[0].body)
	assert.Empty(t, recorded.all()[1].token)
	assert.Equal(t, "user_id=1", recorded.all()[2].query)
	assert.Equal(t, "tkn", recorded.all()[2].token)
	assert.Equal(t, "tkn", recorded.all()[3].token)
}

func TestClient_LoginInvalidCredentials(t *testing.T) {
	client, _ := newTestAPI(t, map[string]func(w http.ResponseWriter){
		"POST /api/auth/login": func(w http.ResponseWriter) {
			pkg.WriteJSONErrorWithMessage(w, "Invalid credentials", "Invalid username or password", http.StatusUnauthorized)
		},
	})

	_, err := client.Login(context.Background(), auth.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Empty(t, client.Token())
}

func TestExercisesClient(t *testing.T) {
	client, recorded := newTestAPI(t, map[string]func(w http.ResponseWriter){
		"GET /api/exercises":      respondJSON([]exercises.Exercise{{ID: 1, Name: "Squat", Category: "Legs"}}, http.StatusOK),
		"POST /api/exercises":     respondJSON(exercises.Exercise{ID: 2, Name: "Row", Category: "Back"}, http.StatusCreated),
		"PUT /api/exercises/2":    respondJSON(pkg.SuccessResponse{Success: true}, http.StatusOK),
		"DELETE /api/exercises/1": respondJSON(pkg.ErrorResponse{Error: "exercise in use"}, http.StatusConflict),
	})
	store := client.Exercises()
	ctx := context.Background()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []exercises.Exercise{{ID: 1, Name: "Squat", Category: "Legs"}}, list)

	added, err := store.Add(ctx, "Row", "Back")
	require.NoError(t, err)
	assert.Equal(t, 2, added.ID)

	require.NoError(t, store.Update(ctx, exercises.Exercise{ID: 2, Name: "Barbell Row", Category: "Back"}))
	assert.ErrorIs(t, store.Update(ctx, exercises.Exercise{ID: 9, Name: "x", Category: "y"}), exercises.ErrExerciseNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 1), exercises.ErrExerciseInUse)

	assert.JSONEq(t, `{"name":"Barbell Row","category":"Back"}`, recorded.all()[2].body)
}

func TestWorkoutsClient(t *testing.T) {
	sessions := []workouts.SessionView{{
		ID: 10, ExerciseID: 1, WorkoutDate: "2024-05-01", ExerciseName: "Squat", ExerciseCategory: "Legs",
		Sets: []workouts.SetView{{ID: 20, Weight: 62.5, Reps: 5, Completed: true}},
	}}
	client, recorded := newTestAPI(t, map[string]func(w http.ResponseWriter){
		"GET /api/workouts":               respondJSON(sessions, http.StatusOK),
		"GET /api/workouts/dates":         respondJSON([]string{"2024-05-01"}, http.StatusOK),
		"POST /api/workouts/session":      respondJSON(workouts.NewSessionIDs{SessionID: 11, SetID: 21}, http.StatusCreated),
		"DELETE /api/workouts/session/11": respondJSON(pkg.SuccessResponse{Success: true}, http.StatusOK),
		"POST /api/workouts/set":          respondJSON(workouts.AddSetResponse{ID: 22}, http.StatusCreated),
		"PUT /api/workouts/set/22":        respondJSON(pkg.SuccessResponse{Success: true}, http.StatusOK),
		"DELETE /api/workouts/set/22":     respondJSON(pkg.SuccessResponse{Success: true}, http.StatusOK),
	})
	store := client.Workouts()
	ctx := context.Background()

	got, err := store.ListSessions(ctx, 7, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, sessions, got)
	assert.Equal(t, "date=2024-05-01&user_id=7", recorded.all()[0].query)

	_, err = store.ListSessions(ctx, 7, "May 1st")
	assert.ErrorIs(t, err, workouts.ErrInvalidDate)

	dates, err := store.ListDates(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-01"}, dates)

	ids, err := store.AddSession(ctx, 7, 1, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, workouts.NewSessionIDs{SessionID: 11, SetID: 21}, ids)

	setID, err := store.AddSet(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, 22, setID)

	reps := 8
	require.NoError(t, store.UpdateSet(ctx, 22, workouts.SetUpdate{Reps: &reps}))
	requests := recorded.all()
	last := requests[len(requests)-1]
	assert.JSONEq(t, `{"reps":8}`, last.body)
	assert.ErrorIs(t, store.UpdateSet(ctx, 22, workouts.SetUpdate{}), workouts.ErrEmptySetUpdate)

	require.NoError(t, store.DeleteSet(ctx, 22))
	require.NoError(t, store.DeleteSession(ctx, 11))
	assert.ErrorIs(t, store.DeleteSession(ctx, 12), workouts.ErrSessionNotFound)
	assert.ErrorIs(t, store.DeleteSet(ctx, 23), workouts.ErrSetNotFound)
}

func TestScheduleClient(t *testing.T) {
	client, recorded := newTestAPI(t, map[string]func(w http.ResponseWriter){
		"GET /api/schedule":      respondJSON([]schedule.DayPlan{{ID: 1, UserID: 7, DayOfWeek: 1, TargetBodyPart: "Legs"}}, http.StatusOK),
		"PUT /api/schedule/1":    respondJSON(schedule.DayPlan{ID: 1, UserID: 7, DayOfWeek: 1, TargetBodyPart: "Chest"}, http.StatusOK),
		"DELETE /api/schedule/1": respondJSON(pkg.SuccessResponse{Success: true}, http.StatusOK),
	})
	store := client.Schedule()
	ctx := context.Background()

	plans, err := store.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	plan, err := store.Upsert(ctx, 7, 1, schedule.DayPlanInput{TargetBodyPart: "Chest"})
	require.NoError(t, err)
	assert.Equal(t, "Chest", plan.TargetBodyPart)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(recorded.all()[1].body), &sent))
	assert.Equal(t, float64(7), sent["user_id"])
	assert.Equal(t, "Chest", sent["target_body_part"])

	_, err = store.Upsert(ctx, 7, 7, schedule.DayPlanInput{})
	assert.ErrorIs(t, err, schedule.ErrInvalidDay)

	require.NoError(t, store.Delete(ctx, 7, 1))
	assert.Equal(t, "user_id=7", recorded.all()[2].query)
	assert.ErrorIs(t, store.Delete(ctx, 7, 2), schedule.ErrDayPlanNotFound)
}

func TestWorkoutsClient_AddSessionUnknownReferences(t *testing.T) {
	client, _ := newTestAPI(t, map[string]func(w http.ResponseWriter){
		"POST /api/workouts/session": respondJSON(pkg.ErrorResponse{Error: "user not found"}, http.StatusUnprocessableEntity),
	})

	_, err := client.Workouts().AddSession(context.Background(), 424242, 1, "2024-05-01")
	assert.ErrorIs(t, err, workouts.ErrUserNotFound)
	assert.NotErrorIs(t, err, exercises.ErrExerciseNotFound)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
}
