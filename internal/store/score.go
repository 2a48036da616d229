package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tastechain/reviewscore/internal/domain"
)

type PostgresScoreStore struct {
	db *pgxpool.Pool
}

func NewPostgresScoreStore(db *pgxpool.Pool) *PostgresScoreStore {
	return &PostgresScoreStore{db: db}
}

func (s *PostgresScoreStore) Create(ctx context.Context, r *domain.ScoreRecord) error {
	breakdown, err := json.Marshal(r.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO review_scores (id, restaurant_name, cuisine, confidence_score, source, breakdown)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		r.ID, r.RestaurantName, r.Cuisine, r.ConfidenceScore, string(r.Source), breakdown,
	).Scan(&r.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *PostgresScoreStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScoreRecord, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, restaurant_name, cuisine, confidence_score, source, breakdown, created_at
		 FROM review_scores WHERE id = $1`,
		id,
	)
	r, err := scanScore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *PostgresScoreStore) ListRecent(ctx context.Context, opts domain.ScoreListOpts) ([]domain.ScoreRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, restaurant_name, cuisine, confidence_score, source, breakdown, created_at
		 FROM review_scores
		 WHERE ($1 = '' OR restaurant_name = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		opts.RestaurantName, clampLimit(opts.Limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ScoreRecord
	for rows.Next() {
		r, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (s *PostgresScoreStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM review_scores WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresScoreStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanScore(row pgx.Row) (*domain.ScoreRecord, error) {
	var (
		r         domain.ScoreRecord
		source    string
		breakdown []byte
	)
	if err := row.Scan(&r.ID, &r.RestaurantName, &r.Cuisine, &r.ConfidenceScore, &source, &breakdown, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Source = domain.ScoreSource(source)
	if err := json.Unmarshal(breakdown, &r.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	return &r, nil
}
