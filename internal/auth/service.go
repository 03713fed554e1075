package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL        = 24 * 7 * time.Hour
	sessionKeyPrefix  = "workoutlog-session||"
	tokensSetKey      = "workoutlog-sessions"
	sessionTokenBytes = 32
)

type LoginSession struct {
	Token     string
	CreatedAt time.Time
	User      *User
}

type Service struct {
	users       UserStore
	redisClient *redis.Client
	ttl         time.Duration
	// TokenFunc generates session tokens; replaced in tests
	TokenFunc func(s int) (string, error)
}

func NewAuthService(
	users UserStore,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		users:       users,
		ttl:         ttl,
		redisClient: redisClient,
		TokenFunc:   pkg.GenerateToken,
	}
}

// Register stores a new user with a bcrypt hash of the password.
func (as *Service) Register(ctx context.Context, creds Credentials) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return as.users.Create(ctx, creds.Username, passwordHash)
}

// Login checks the credentials and opens a new session. Unknown users and
// wrong passwords both end in ErrInvalidCredentials.
func (as *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (_ *LoginSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	user, err := as.users.ByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Tracef("[username] failed login attempt for user: %s", creds.Username)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", creds.Username)
		return nil, ErrInvalidCredentials
	}

	token, err := as.TokenFunc(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, createdAt.Unix(), 0)
	if err := cmdSet.Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}

	return &LoginSession{
		Token:     token,
		CreatedAt: createdAt,
		User:      user,
	}, nil
}

// Logout removes the session and reports whether it existed.
func (as *Service) Logout(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if token == "" {
		return false, ErrSessionTokenMissing
	}

	sessionKey := sessionKeyPrefix + token
	cmdDel := as.redisClient.Del(ctx, sessionKey)
	if err := cmdDel.Err(); err != nil {
		return false, err
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return false, err
	}

	return cmdDel.Val() > 0, nil
}

func (as *Service) Profile(ctx context.Context, userID int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return as.users.ByID(ctx, userID)
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		createdAt, found, err := sessionCreatedAt(ctx, as.redisClient, token)
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}
		if !found {
			// dangling token, session key already gone
			toRemove = append(toRemove, token)
			continue
		}

		if time.Since(createdAt) > as.ttl {
			log.Debugf("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		// remove token from the list of sessions
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
	}
}
