package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// sessionCreatedAt reads the creation time stored under the session token.
// found is false when redis holds no such session.
func sessionCreatedAt(ctx context.Context, rdb *redis.Client, token string) (_ time.Time, found bool, _ error) {
	val, err := rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	createdAtUnix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, true, fmt.Errorf("malformed session value %q: %w", val, err)
	}
	return time.Unix(createdAtUnix, 0), true, nil
}

// LoginChecker validates session tokens for the auth middleware.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// IsLogged reports whether token belongs to a session younger than the TTL.
// An unknown token is not an error.
func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	createdAt, found, err := sessionCreatedAt(ctx, c.redisClient, token)
	if err != nil || !found {
		return false, err
	}
	return time.Since(createdAt) <= c.ttl, nil
}
