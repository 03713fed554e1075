package workouts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type AddSessionRequest struct {
	UserID     int    `json:"user_id"`
	ExerciseID int    `json:"exercise_id"`
	Date       string `json:"date"`
}

type AddSetRequest struct {
	SessionID int `json:"session_id"`
}

type AddSetResponse struct {
	ID int `json:"id"`
}

type Handler struct {
	store          Store
	metricsManager *metrics.Manager
}

func NewHandler(store Store, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:          store,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/workouts", handler.HandleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/api/workouts/dates", handler.HandleGetDates).Methods("GET", "OPTIONS").Name("get-workout-dates")
	r.HandleFunc("/api/workouts/session", handler.HandleAddSession).Methods("POST", "OPTIONS").Name("new-session")
	r.HandleFunc("/api/workouts/session/{id}", handler.HandleDeleteSession).Methods("DELETE", "OPTIONS").Name("delete-session")
	r.HandleFunc("/api/workouts/set", handler.HandleAddSet).Methods("POST", "OPTIONS").Name("new-set")
	r.HandleFunc("/api/workouts/set/{id}", handler.HandleUpdateSet).Methods("PUT", "OPTIONS").Name("update-set")
	r.HandleFunc("/api/workouts/set/{id}", handler.HandleDeleteSet).Methods("DELETE", "OPTIONS").Name("delete-set")
}

func (handler *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	date := r.URL.Query().Get("date")
	userIDStr := r.URL.Query().Get("user_id")
	if date == "" || userIDStr == "" {
		pkg.WriteJSONError(w, "Missing date or user_id", http.StatusBadRequest)
		return
	}
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		pkg.WriteJSONError(w, "invalid user_id", http.StatusBadRequest)
		return
	}

	sessions, err := handler.store.ListSessions(ctx, userID, date)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			pkg.WriteJSONError(w, ErrInvalidDate.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("get workout [%s] user %d: %s", date, userID, err)
		pkg.WriteJSONError(w, "failed to get workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, sessions)
}

func (handler *Handler) HandleGetDates(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.dates")
	defer span.End()

	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		pkg.WriteJSONError(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	dates, err := handler.store.ListDates(ctx, userID)
	if err != nil {
		log.Errorf("get workout dates user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get workout dates", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, dates)
}

func (handler *Handler) HandleAddSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.session.new")
	defer span.End()

	var req AddSessionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == 0 || req.ExerciseID == 0 || req.Date == "" {
		pkg.WriteJSONError(w, "Missing user_id, exercise_id or date", http.StatusBadRequest)
		return
	}

	ids, err := handler.store.AddSession(ctx, req.UserID, req.ExerciseID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			pkg.WriteJSONError(w, ErrInvalidDate.Error(), http.StatusBadRequest)
		case errors.Is(err, exercises.ErrExerciseNotFound):
			pkg.WriteJSONError(w, "exercise not found", http.StatusNotFound)
		case errors.Is(err, ErrUserNotFound):
			pkg.WriteJSONError(w, ErrUserNotFound.Error(), http.StatusUnprocessableEntity)
		default:
			log.Errorf("add session [%s] user %d exercise %d: %s", req.Date, req.UserID, req.ExerciseID, err)
			pkg.WriteJSONError(w, "failed to add session", http.StatusInternalServerError)
		}
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterWorkoutSessions.Inc()
		handler.metricsManager.CounterWorkoutSets.Inc()
	}

	log.Debugf("new session %d with set %d added [%s]", ids.SessionID, ids.SetID, req.Date)
	pkg.WriteJSON(w, ids, http.StatusCreated)
}

func (handler *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.session.delete")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := handler.store.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, ErrSessionNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("delete session %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to delete session", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONSuccess(w)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.set.new")
	defer span.End()

	var req AddSetRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.SessionID == 0 {
		pkg.WriteJSONError(w, "Missing session_id", http.StatusBadRequest)
		return
	}

	id, err := handler.store.AddSet(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, ErrSessionNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("add set to session %d: %s", req.SessionID, err)
		pkg.WriteJSONError(w, "failed to add set", http.StatusInternalServerError)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterWorkoutSets.Inc()
	}

	pkg.WriteJSON(w, AddSetResponse{ID: id}, http.StatusCreated)
}

func (handler *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.set.update")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var update SetUpdate
	if !decodeJSONBody(w, r, &update) {
		return
	}
	if update.IsEmpty() {
		pkg.WriteJSONError(w, ErrEmptySetUpdate.Error(), http.StatusBadRequest)
		return
	}
	update, err := update.Normalize()
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.store.UpdateSet(ctx, id, update); err != nil {
		if errors.Is(err, ErrSetNotFound) {
			pkg.WriteJSONError(w, ErrSetNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("update set %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to update set", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONSuccess(w)
}

func (handler *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.set.delete")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := handler.store.DeleteSet(ctx, id); err != nil {
		if errors.Is(err, ErrSetNotFound) {
			pkg.WriteJSONError(w, ErrSetNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("delete set %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to delete set", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONSuccess(w)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Tracef("workouts, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
