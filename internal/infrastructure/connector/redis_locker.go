package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "billing:lock:"

// releaseScript deletes the key only while it still holds the caller's token
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

type redisLocker struct {
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisClient opens a client and checks the connection
func NewRedisClient(ctx context.Context, settings *config.RedisSettings) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     settings.Addr,
		Password: settings.Password,
		DB:       settings.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", settings.Addr, err)
	}
	return client, nil
}

// NewRedisLocker creates a Locker using SET NX PX
func NewRedisLocker(client redis.UniversalClient, logger logger.Logger) cron.Locker {
	return &redisLocker{
		client: client,
		logger: logger,
	}
}

func (l *redisLocker) Acquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, lockKeyPrefix+name, owner, ttl).Result()
	if err != nil {
		l.logger.Error("Failed to acquire lock ", name, ": ", err.Error())
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	return acquired, nil
}

func (l *redisLocker) Release(ctx context.Context, name, owner string) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKeyPrefix + name}, owner).Err(); err != nil {
		l.logger.Error("Failed to release lock ", name, ": ", err.Error())
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}
	return nil
}
