package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/planner/internal/config"
	"github.com/julianstephens/planner/internal/keyring"
	"github.com/julianstephens/planner/internal/logger"
)

// RedisStore keeps the device blob as a single string value.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedis connects to cfg.Addr. The password comes from the OS keyring and
// is left empty when none is stored.
func NewRedis(cfg config.RedisConfig, deviceID string) (*RedisStore, error) {
	password, err := keyring.Get(keyring.SecretRedisPassword)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Redis password unavailable, connecting without one", "error", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: password,
		DB:       cfg.DB,
	})
	return NewRedisWithClient(client, cfg.KeyPrefix, deviceID), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, keyPrefix, deviceID string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    ObjectKey(keyPrefix, deviceID),
	}
}

// Key returns the redis key holding the blob.
func (r *RedisStore) Key() string {
	return r.key
}

func (r *RedisStore) Upload(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return redisError("failed to store remote backup", err)
	}
	logger.Debug("Uploaded remote backup", "key", r.key, "bytes", len(data))
	return nil
}

func (r *RedisStore) Download(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		return nil, redisError("failed to fetch remote backup", err)
	}
	return data, nil
}

func (r *RedisStore) Exists(ctx context.Context) (bool, error) {
	n, err := r.client.Exists(ctx, r.key).Result()
	if err != nil {
		return false, redisError("failed to check remote backup", err)
	}
	return n > 0, nil
}

func (r *RedisStore) IsOnline(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisStore) Describe() string {
	return fmt.Sprintf("redis://%s/%s", r.client.Options().Addr, r.key)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func redisError(op string, err error) error {
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return wrapOffline(op, err)
}
