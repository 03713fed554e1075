package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type authService interface {
	Register(ctx context.Context, creds Credentials) (*User, error)
	Login(ctx context.Context, creds Credentials, createdAt time.Time) (*LoginSession, error)
	Logout(ctx context.Context, token string) (bool, error)
	Profile(ctx context.Context, userID int) (*User, error)
}

type LoginResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type Handler struct {
	authService    authService
	metricsManager *metrics.Manager
}

func NewHandler(authService authService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		authService:    authService,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	authRouter := mainRouter.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", handler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	authRouter.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", handler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/profile", handler.HandleProfile).Methods("GET", "OPTIONS").Name("profile")

	// rate limit the auth endpoints to prevent credential guessing
	authRouter.Use(middleware.RateLimit(rateLimiter, "login", allowedPerMin, handler.metricsManager))
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := handler.authService.Register(ctx, creds)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			pkg.WriteJSONError(w, ErrMissingCredentials.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrUsernameTaken):
			pkg.WriteJSONError(w, ErrUsernameTaken.Error(), http.StatusConflict)
		default:
			log.Errorf("register user %s: %s", creds.Username, err)
			pkg.WriteJSONError(w, "failed to register", http.StatusInternalServerError)
		}
		return
	}

	log.Debugf("new user registered: %s [%d]", user.Username, user.ID)
	pkg.WriteJSON(w, user, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := handler.authService.Login(ctx, creds, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			handler.countLogin("invalid")
			pkg.WriteJSONError(w, ErrMissingCredentials.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrInvalidCredentials):
			handler.countLogin("invalid")
			pkg.WriteJSONErrorWithMessage(
				w,
				"Invalid credentials",
				InvalidCredentialsMessage(r.Header.Get("Accept-Language")),
				http.StatusUnauthorized,
			)
		default:
			handler.countLogin("error")
			log.Errorf("login failed for %s: %s", creds.Username, err)
			pkg.WriteJSONError(w, "login failed", http.StatusInternalServerError)
		}
		return
	}

	handler.countLogin("success")
	log.Trace("new login success")
	pkg.WriteJSONOK(w, LoginResponse{
		ID:       session.User.ID,
		Username: session.User.Username,
		Token:    session.Token,
	})
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	authToken := r.Header.Get(middleware.AuthTokenHeader)
	if authToken == "" {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("logout: %s", err)
		pkg.WriteJSONError(w, "logout failed", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	pkg.WriteJSONSuccess(w)
}

func (handler *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.profile")
	defer span.End()

	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		pkg.WriteJSONError(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	user, err := handler.authService.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteJSONError(w, ErrUserNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("get profile %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, user)
}

func (handler *Handler) countLogin(result string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues(result).Inc()
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (Credentials, bool) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Tracef("auth, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return Credentials{}, false
	}
	return creds, true
}
