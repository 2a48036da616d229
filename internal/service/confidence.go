package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tastechain/reviewscore/internal/domain"
)

const DefaultScoringTimeout = 5 * time.Second

type ConfidenceService struct {
	remote   Scorer
	fallback Scorer
	store    domain.ScoreStore
	logger   *zap.Logger

	// ScoringTimeout bounds the remote attempt.
	ScoringTimeout time.Duration
}

// NewConfidenceService builds the scoring engine. A nil client disables the
// remote attempt and a nil store disables recording.
func NewConfidenceService(client domain.LLMClient, references []domain.ReferenceReview, store domain.ScoreStore, logger *zap.Logger) *ConfidenceService {
	s := &ConfidenceService{
		fallback:       HeuristicScorer{},
		store:          store,
		logger:         logger,
		ScoringTimeout: DefaultScoringTimeout,
	}
	if client != nil {
		s.remote = NewRemoteScorer(client, references)
	}
	return s
}

// Calculate scores one review. Only *domain.InvalidInputError and
// *domain.ConfigurationError are returned; remote failures fall back to the
// heuristic.
func (s *ConfidenceService) Calculate(ctx context.Context, req *domain.ScoreRequest) (*domain.ConfidenceResult, error) {
	if req == nil {
		return nil, &domain.InvalidInputError{Field: "request"}
	}

	sc, err := domain.NewScoringContext(req)
	if err != nil {
		return nil, err
	}

	score, source, err := s.score(ctx, sc)
	if err != nil {
		return nil, err
	}

	result := &domain.ConfidenceResult{
		ConfidenceScore: domain.ClampScore(score),
		Source:          source,
		Breakdown:       domain.NewBreakdown(sc),
	}
	s.record(ctx, sc, result)
	return result, nil
}

func (s *ConfidenceService) score(ctx context.Context, sc *domain.ScoringContext) (int, domain.ScoreSource, error) {
	if s.remote != nil {
		remoteCtx, cancel := context.WithTimeout(ctx, s.ScoringTimeout)
		score, err := s.remote.Score(remoteCtx, sc)
		cancel()

		if err == nil {
			return score, domain.SourceModel, nil
		}
		if domain.IsConfiguration(err) {
			return 0, "", err
		}
		if !errors.Is(err, domain.ErrRemoteScoringUnavailable) {
			s.logger.Error("unexpected remote scoring error", zap.Error(err))
		} else {
			s.logger.Warn("remote scoring unavailable, using heuristic", zap.Error(err))
		}
	}

	score, err := s.fallback.Score(ctx, sc)
	if err != nil {
		return 0, "", err
	}
	return score, domain.SourceHeuristic, nil
}

// record stores the result in the ledger. Failures are logged only.
func (s *ConfidenceService) record(ctx context.Context, sc *domain.ScoringContext, result *domain.ConfidenceResult) {
	if s.store == nil {
		return
	}

	rec := &domain.ScoreRecord{
		ID:              uuid.New(),
		RestaurantName:  sc.RestaurantName,
		Cuisine:         sc.RestaurantCuisine,
		ConfidenceScore: result.ConfidenceScore,
		Source:          result.Source,
		Breakdown:       result.Breakdown,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		s.logger.Warn("failed to record score",
			zap.String("score_id", rec.ID.String()),
			zap.Error(err),
		)
		return
	}

	id := rec.ID
	result.ID = &id
	s.logger.Debug("recorded score",
		zap.String("score_id", id.String()),
		zap.Int("confidence_score", result.ConfidenceScore),
		zap.String("source", string(result.Source)),
	)
}
