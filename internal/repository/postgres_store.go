package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresStore implements PayloadStore on a single PostgreSQL table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed payload store.
// Call EnsureSchema once before first use.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("repository", "postgres-cache").Logger(),
	}
}

// EnsureSchema creates the cache table if it does not exist.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS panel_cache (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		r.logger.Error().Err(err).Msg("failed to create cache table")
		return fmt.Errorf("failed to create cache table: %w", err)
	}

	return nil
}

// Get retrieves the entry stored under key.
func (r *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
		SELECT value
		FROM panel_cache
		WHERE key = $1
	`

	var value []byte
	err := r.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("key", key).Msg("cache entry not found")
			return nil, false, nil
		}
		r.logger.Error().Err(err).Str("key", key).Msg("failed to query cache entry")
		return nil, false, fmt.Errorf("failed to query cache entry: %w", err)
	}

	return value, true, nil
}

// Set upserts the entry stored under key.
func (r *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO panel_cache (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to upsert cache entry")
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}
