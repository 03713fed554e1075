package exercises

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ExerciseRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/api/exercises", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/api/exercises/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	r.HandleFunc("/api/exercises/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	exercises, err := handler.store.List(ctx)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		pkg.WriteJSONError(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, exercises)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.new")
	defer span.End()

	req, ok := decodeExerciseRequest(w, r)
	if !ok {
		return
	}

	added, err := handler.store.Add(ctx, req.Name, req.Category)
	if err != nil {
		log.Errorf("add exercise [%s] [%s]: %s", req.Name, req.Category, err)
		pkg.WriteJSONError(w, "failed to add exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("new exercise added: %d %s", added.ID, added.Name)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.update")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, ok := decodeExerciseRequest(w, r)
	if !ok {
		return
	}

	err := handler.store.Update(ctx, Exercise{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteJSONError(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("update exercise %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to update exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONSuccess(w)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.delete")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := handler.store.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, ErrExerciseNotFound):
			pkg.WriteJSONError(w, "exercise not found", http.StatusNotFound)
		case errors.Is(err, ErrExerciseInUse):
			pkg.WriteJSONError(w, "exercise is used by workout sessions", http.StatusConflict)
		default:
			log.Errorf("delete exercise %d: %s", id, err)
			pkg.WriteJSONError(w, "failed to delete exercise", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSONSuccess(w)
}

func decodeExerciseRequest(w http.ResponseWriter, r *http.Request) (ExerciseRequest, bool) {
	var req ExerciseRequest
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("exercise request, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	if strings.TrimSpace(req.Name) == "" {
		pkg.WriteJSONError(w, "Missing exercise name", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		pkg.WriteJSONError(w, "id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		pkg.WriteJSONError(w, "id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
