package schedule

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

type SaveDayPlanRequest struct {
	UserID int `json:"user_id"`
	DayPlanInput
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
	r.HandleFunc("/api/schedule", handler.HandleList).Methods("GET", "OPTIONS").Name("list-schedule")
	r.HandleFunc("/api/schedule/{day}", handler.HandleSave).Methods("PUT", "OPTIONS").Name("save-day-plan")
	r.HandleFunc("/api/schedule/{day}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-day-plan")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.list")
	defer span.End()

	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		pkg.WriteJSONError(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	plans, err := handler.store.List(ctx, userID)
	if err != nil {
		log.Errorf("list schedule for user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get schedule", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, plans)
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.save")
	defer span.End()

	day, ok := pathDay(w, r)
	if !ok {
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req SaveDayPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("save day plan, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == 0 {
		pkg.WriteJSONError(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	plan, err := handler.store.Upsert(ctx, req.UserID, day, req.DayPlanInput)
	if err != nil {
		log.Errorf("save day plan %d for user %d: %s", day, req.UserID, err)
		pkg.WriteJSONError(w, "failed to save day plan", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, plan)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.delete")
	defer span.End()

	day, ok := pathDay(w, r)
	if !ok {
		return
	}

	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		pkg.WriteJSONError(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	if err := handler.store.Delete(ctx, userID, day); err != nil {
		if errors.Is(err, ErrDayPlanNotFound) {
			pkg.WriteJSONError(w, "day plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete day plan %d for user %d: %s", day, userID, err)
		pkg.WriteJSONError(w, "failed to delete day plan", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONSuccess(w)
}

func pathDay(w http.ResponseWriter, r *http.Request) (int, bool) {
	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil || !ValidDay(day) {
		pkg.WriteJSONError(w, ErrInvalidDay.Error(), http.StatusBadRequest)
		return 0, false
	}
	return day, true
}
