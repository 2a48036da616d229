package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens a pool and verifies it with a ping.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

const scoreSchemaSQL = `
CREATE TABLE IF NOT EXISTS review_scores (
	id               UUID PRIMARY KEY,
	restaurant_name  TEXT NOT NULL DEFAULT '',
	cuisine          TEXT NOT NULL DEFAULT '',
	confidence_score SMALLINT NOT NULL CHECK (confidence_score BETWEEN 0 AND 100),
	source           TEXT NOT NULL,
	breakdown        JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS review_scores_restaurant_created_idx
	ON review_scores (restaurant_name, created_at DESC);
`

// EnsureSchema creates the score ledger table when it does not exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, scoreSchemaSQL); err != nil {
		return fmt.Errorf("create review_scores: %w", err)
	}
	return nil
}
