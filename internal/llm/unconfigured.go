package llm

import (
	"context"

	"github.com/tastechain/reviewscore/internal/domain"
)

// UnconfiguredClient stands in for a provider whose credentials are missing.
// Every call fails with the configuration error, so the server can still boot
// and report the problem per request.
type UnconfiguredClient struct {
	Err *domain.ConfigurationError
}

func (c *UnconfiguredClient) ScoreReview(ctx context.Context, sc *domain.ScoringContext, refs []domain.ReferenceReview) (string, error) {
	return "", c.Err
}

func (c *UnconfiguredClient) SummarizeReviews(ctx context.Context, restaurantName string, reviews []domain.ReviewDigest) (string, error) {
	return "", c.Err
}
