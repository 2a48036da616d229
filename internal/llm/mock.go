package llm

import (
	"context"
	"sync"
	"time"

	"github.com/tastechain/reviewscore/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	ScoreResponse     string
	ScoreError        error
	SummarizeResponse string
	SummarizeError    error

	// Delay holds each call until it elapses or the context is done.
	Delay time.Duration

	mu sync.Mutex
	// Call tracking for assertions
	ScoreCalls     []*domain.ScoringContext
	ScoreRefCounts []int
	SummarizeCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		ScoreResponse:     "75",
		SummarizeResponse: "Mock summary",
	}
}

func (c *MockClient) wait(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *MockClient) ScoreReview(ctx context.Context, sc *domain.ScoringContext, refs []domain.ReferenceReview) (string, error) {
	c.mu.Lock()
	c.ScoreCalls = append(c.ScoreCalls, sc)
	c.ScoreRefCounts = append(c.ScoreRefCounts, len(refs))
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return "", err
	}
	if c.ScoreError != nil {
		return "", c.ScoreError
	}
	return c.ScoreResponse, nil
}

func (c *MockClient) SummarizeReviews(ctx context.Context, restaurantName string, reviews []domain.ReviewDigest) (string, error) {
	c.mu.Lock()
	c.SummarizeCalls = append(c.SummarizeCalls, restaurantName)
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return "", err
	}
	if c.SummarizeError != nil {
		return "", c.SummarizeError
	}
	return c.SummarizeResponse, nil
}
