package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisStore implements PayloadStore on Redis string keys without expiry.
type redisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed payload store.
func NewRedisStore(client *redis.Client, logger zerolog.Logger) PayloadStore {
	return &redisStore{
		client: client,
		logger: logger.With().Str("repository", "redis-cache").Logger(),
	}
}

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		r.logger.Error().Err(err).Str("key", key).Msg("failed to get cache entry")
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	return data, true, nil
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte) error {
	// Zero expiration keeps the entry until it is overwritten.
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to set cache entry")
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}
