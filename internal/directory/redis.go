package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barachat/gateway/internal/infrastructure/configs"
	"github.com/barachat/gateway/internal/infrastructure/logging"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "sessions:"
	presenceKeyPrefix = "presence:"

	// Session sets expire on the same clock as presence so that keys left
	// behind by a crashed process cannot accumulate.
	sessionTTL = 300 * time.Second
)

// RedisDirectory implements Directory on a shared redis instance. It is
// the single source of truth for presence; the CRUD layer reads the same
// keys when annotating member lists.
type RedisDirectory struct {
	client *redis.Client
	logger logging.Logger
}

var _ Directory = (*RedisDirectory)(nil)

func NewRedisDirectory(cfg configs.RedisConfig, logger logging.Logger) (*RedisDirectory, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisDirectory{client: client, logger: logger}, nil
}

func (d *RedisDirectory) AddSession(ctx context.Context, userID, sessionID string) error {
	key := sessionKeyPrefix + userID

	pipe := d.client.TxPipeline()
	pipe.SAdd(ctx, key, sessionID)
	pipe.Expire(ctx, key, sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add session %s for user %s: %w", sessionID, userID, err)
	}
	return nil
}

func (d *RedisDirectory) RemoveSession(ctx context.Context, userID, sessionID string) error {
	if err := d.client.SRem(ctx, sessionKeyPrefix+userID, sessionID).Err(); err != nil {
		return fmt.Errorf("failed to remove session %s for user %s: %w", sessionID, userID, err)
	}
	return nil
}

func (d *RedisDirectory) ListSessions(ctx context.Context, userID string) ([]string, error) {
	sessions, err := d.client.SMembers(ctx, sessionKeyPrefix+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %s: %w", userID, err)
	}
	return sessions, nil
}

func (d *RedisDirectory) SetPresence(ctx context.Context, userID string, online bool, ttl time.Duration) error {
	value := "0"
	if online {
		value = "1"
	}

	if err := d.client.Set(ctx, presenceKeyPrefix+userID, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set presence for user %s: %w", userID, err)
	}

	// Keep the session set alive alongside a fresh online mark.
	if online {
		if err := d.client.Expire(ctx, sessionKeyPrefix+userID, sessionTTL).Err(); err != nil {
			d.logger.Warn(logging.Redis, logging.Presence, "failed to refresh session TTL", map[logging.ExtraKey]any{
				logging.UserId:       userID,
				logging.ErrorMessage: err.Error(),
			})
		}
	}
	return nil
}

func (d *RedisDirectory) GetPresence(ctx context.Context, userID string) (bool, error) {
	value, err := d.client.Get(ctx, presenceKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get presence for user %s: %w", userID, err)
	}
	return value == "1", nil
}

func (d *RedisDirectory) Close() error {
	return d.client.Close()
}
