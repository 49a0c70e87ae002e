package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockRetryInterval = 25 * time.Millisecond

// Deletes the lock only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// UserLocker serializes work per user id across instances sharing one Redis.
// The TTL bounds how long a crashed holder can block a user.
type UserLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewUserLocker(client *redis.Client, ttl time.Duration) *UserLocker {
	return &UserLocker{
		client: client,
		ttl:    ttl,
		retry:  lockRetryInterval,
	}
}

// Lock polls SET NX until the lock is taken or ctx is done.
func (l *UserLocker) Lock(ctx context.Context, userID string) (func(), error) {
	key := lockKey(userID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire user lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = unlockScript.Run(ctx, l.client, []string{key}, token).Err()
	}, nil
}

func lockKey(userID string) string {
	return "quiz:lock:" + userID
}
