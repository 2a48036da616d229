package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tastechain/reviewscore/internal/domain"
)

const (
	cerebrasAPIURL = "https://api.cerebras.ai/v1/chat/completions"
	cerebrasModel  = "llama-3.3-70b"
)

// CerebrasClient talks to Cerebras through its OpenAI-compatible API.
type CerebrasClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewCerebrasClient(apiKey string) *CerebrasClient {
	return &CerebrasClient{
		apiKey:     apiKey,
		baseURL:    cerebrasAPIURL,
		httpClient: &http.Client{},
	}
}

func (c *CerebrasClient) ScoreReview(ctx context.Context, sc *domain.ScoringContext, refs []domain.ReferenceReview) (string, error) {
	result, err := completeChat(ctx, c.httpClient, c.baseURL, c.apiKey, cerebrasModel, scoringCompletion(sc, refs))
	if err != nil {
		return "", fmt.Errorf("cerebras score review: %w", err)
	}
	return result, nil
}

func (c *CerebrasClient) SummarizeReviews(ctx context.Context, restaurantName string, reviews []domain.ReviewDigest) (string, error) {
	req, err := summaryCompletion(restaurantName, reviews)
	if err != nil {
		return "", err
	}

	result, err := completeChat(ctx, c.httpClient, c.baseURL, c.apiKey, cerebrasModel, req)
	if err != nil {
		return "", fmt.Errorf("cerebras summarize reviews: %w", err)
	}
	return result, nil
}
