package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tastechain/reviewscore/internal/domain"
)

const geminiModel = "gemini-1.5-flash"

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: geminiModel}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) complete(ctx context.Context, cm completion) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(cm.temperature)
	model.SetMaxOutputTokens(int32(cm.maxTokens))
	if cm.system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(cm.system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(cm.prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini API returned no candidates")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return strings.TrimSpace(string(text)), nil
		}
	}
	return "", fmt.Errorf("gemini API returned no text")
}

func (c *GeminiClient) ScoreReview(ctx context.Context, sc *domain.ScoringContext, refs []domain.ReferenceReview) (string, error) {
	result, err := c.complete(ctx, scoringCompletion(sc, refs))
	if err != nil {
		return "", fmt.Errorf("score review: %w", err)
	}
	return result, nil
}

func (c *GeminiClient) SummarizeReviews(ctx context.Context, restaurantName string, reviews []domain.ReviewDigest) (string, error) {
	req, err := summaryCompletion(restaurantName, reviews)
	if err != nil {
		return "", err
	}

	result, err := c.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summarize reviews: %w", err)
	}
	return result, nil
}
