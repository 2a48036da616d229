package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tastechain/reviewscore/internal/domain"
)

const (
	DefaultSummaryTimeout = 20 * time.Second
	defaultRestaurantName = "this restaurant"
)

type SummaryService struct {
	client domain.LLMClient
	logger *zap.Logger

	SummaryTimeout time.Duration
}

func NewSummaryService(client domain.LLMClient, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		client:         client,
		logger:         logger,
		SummaryTimeout: DefaultSummaryTimeout,
	}
}

// Summarize writes a paragraph about a restaurant's reviews. Model failures
// fall back to a templated paragraph built from the review count and average.
func (s *SummaryService) Summarize(ctx context.Context, restaurantName string, reviews []domain.ReviewDigest) (*domain.ReviewSummary, error) {
	if len(reviews) == 0 {
		return nil, &domain.InvalidInputError{Field: "reviews"}
	}
	if s.client == nil {
		return nil, &domain.ConfigurationError{
			Message:      "LLM provider not configured",
			Instructions: "Set LLM_PROVIDER and the matching API key to enable review summaries",
		}
	}

	name := strings.TrimSpace(restaurantName)
	if name == "" {
		name = defaultRestaurantName
	}
	avg := domain.AverageRating(reviews)

	summaryCtx, cancel := context.WithTimeout(ctx, s.SummaryTimeout)
	defer cancel()

	text, err := s.client.SummarizeReviews(summaryCtx, name, reviews)
	if err != nil && domain.IsConfiguration(err) {
		return nil, err
	}

	source := domain.SourceModel
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		s.logger.Warn("review summary unavailable, using template",
			zap.String("restaurant", name),
			zap.Error(err),
		)
		text = fallbackSummary(name, len(reviews), avg)
		source = domain.SourceHeuristic
	}

	return &domain.ReviewSummary{
		Summary:       text,
		ReviewCount:   len(reviews),
		AverageRating: avg,
		Source:        source,
	}, nil
}

func fallbackSummary(name string, count int, avg string) string {
	return fmt.Sprintf("Based on %d customer reviews, %s has received an average rating of %s out of 5 stars. "+
		"Customers have shared their experiences across various aspects including food quality, service, atmosphere, and value for money. "+
		"The reviews provide valuable insights into what you can expect when dining at this establishment.",
		count, name, avg)
}
