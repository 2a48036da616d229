package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tastechain/reviewscore/internal/domain"
)

const (
	defaultRetentionInterval = 1 * time.Hour
	retentionRunTimeout      = 30 * time.Second
)

// RetentionService prunes score records older than the retention window.
type RetentionService struct {
	store     domain.ScoreStore
	retention time.Duration
	logger    *zap.Logger

	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewRetentionService(store domain.ScoreStore, retention time.Duration, logger *zap.Logger) *RetentionService {
	return &RetentionService{
		store:     store,
		retention: retention,
		logger:    logger,
		interval:  defaultRetentionInterval,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

func (s *RetentionService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the pruner on a periodic schedule in a background goroutine.
func (s *RetentionService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("score retention started",
			zap.Duration("interval", s.interval),
			zap.Duration("retention", s.retention))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), retentionRunTimeout)
				_, _ = s.RunOnce(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("score retention stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the pruner.
func (s *RetentionService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// RunOnce deletes every record created before now minus the retention window.
func (s *RetentionService) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to delete expired scores", zap.Error(err))
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("deleted expired scores",
			zap.Int64("count", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}
