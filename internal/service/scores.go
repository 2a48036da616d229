package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/store"
)

var (
	ErrScoreNotFound  = errors.New("score not found")
	ErrLedgerDisabled = errors.New("score ledger not configured")
)

// ScoreService reads the score ledger.
type ScoreService struct {
	store  domain.ScoreStore
	logger *zap.Logger
}

func NewScoreService(store domain.ScoreStore, logger *zap.Logger) *ScoreService {
	return &ScoreService{store: store, logger: logger}
}

func (s *ScoreService) Enabled() bool {
	return s.store != nil
}

func (s *ScoreService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScoreRecord, error) {
	if s.store == nil {
		return nil, ErrLedgerDisabled
	}
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *ScoreService) ListRecent(ctx context.Context, opts domain.ScoreListOpts) ([]domain.ScoreRecord, error) {
	if s.store == nil {
		return nil, ErrLedgerDisabled
	}
	records, err := s.store.ListRecent(ctx, opts)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.ScoreRecord{}
	}
	return records, nil
}

func (s *ScoreService) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}
