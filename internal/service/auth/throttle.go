package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carewire/clinical-api/internal/model"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

// LoginThrottle counts failed logins per actor identity in Redis and locks
// the identity out for a window once the limit is hit. Throttle failures
// never block a login; the counters are advisory.
type LoginThrottle struct {
	client *redis.Client
}

func NewLoginThrottle(url string) (*LoginThrottle, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &LoginThrottle{client: redis.NewClient(opts)}, nil
}

func (t *LoginThrottle) key(actorType model.ActorType, email string) string {
	return fmt.Sprintf("login_attempts:%s:%s", actorType, email)
}

func (t *LoginThrottle) Locked(ctx context.Context, actorType model.ActorType, email string) (bool, error) {
	attempts, err := t.client.Get(ctx, t.key(actorType, email)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return attempts >= maxLoginAttempts, nil
}

func (t *LoginThrottle) RecordFailure(ctx context.Context, actorType model.ActorType, email string) {
	key := t.key(actorType, email)
	pipe := t.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, lockoutWindow)
	pipe.Exec(ctx)
}

func (t *LoginThrottle) Reset(ctx context.Context, actorType model.ActorType, email string) {
	t.client.Del(ctx, t.key(actorType, email))
}

// Ping verifies connectivity, used by the readiness check.
func (t *LoginThrottle) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}
