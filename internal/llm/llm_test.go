package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastechain/reviewscore/internal/domain"
)

func testScoringContext() *domain.ScoringContext {
	return &domain.ScoringContext{
		ReviewText:        "Great pizza",
		Rating:            4,
		FoodQuality:       4,
		Service:           4,
		Atmosphere:        4,
		Value:             4,
		OrderItems:        "Margherita Pizza, Garlic Bread",
		RestaurantCuisine: "Italian",
		UserPreferences:   []string{"italian", "japanese"},
		ExpectedSpending:  20,
		ActualSpending:    decimal.RequireFromString("25.5"),
		SpendingRatio:     decimal.RequireFromString("1.275"),
		CuisineMatch:      true,
	}
}

func testRefs(n int) []domain.ReferenceReview {
	refs := make([]domain.ReferenceReview, n)
	for i := range refs {
		refs[i] = domain.ReferenceReview{Text: "review " + string(rune('a'+i%26)), Score: i}
	}
	return refs
}

func TestScoringCompletion(t *testing.T) {
	c := scoringCompletion(testScoringContext(), testRefs(25))

	assert.Equal(t, float32(scoringTemperature), c.temperature)
	assert.Equal(t, 10, c.maxTokens)
	assert.Equal(t, scoringSystemPrompt, c.system)

	assert.Contains(t, c.prompt, `Review Text: "Great pizza"`)
	assert.Contains(t, c.prompt, "Ordered Items: Margherita Pizza, Garlic Bread")
	assert.Contains(t, c.prompt, "User Preferences: italian, japanese")
	assert.Contains(t, c.prompt, "Expected Spending: $20")
	assert.Contains(t, c.prompt, "Actual Spending: $25.5")
	assert.Contains(t, c.prompt, "Spending Ratio: 1.28")
	assert.Contains(t, c.prompt, "60% of base score")
	assert.NotContains(t, c.prompt, "%!")

	assert.Equal(t, domain.MaxPromptReferences, strings.Count(c.prompt, "(Score: "))
}

func TestScoringCompletion_NoReferences(t *testing.T) {
	c := scoringCompletion(testScoringContext(), nil)
	assert.NotContains(t, c.prompt, "(Score: ")
	assert.NotContains(t, c.prompt, "%!")
}

func TestSummaryCompletion(t *testing.T) {
	c, err := summaryCompletion("Luigi's", []domain.ReviewDigest{{Rating: 5, Review: "Lovely"}})
	require.NoError(t, err)

	assert.Equal(t, 500, c.maxTokens)
	assert.Contains(t, c.prompt, "customer reviews for Luigi's")
	assert.Contains(t, c.prompt, `"review": "Lovely"`)
}

func TestOpenAIClient_ScoreReview(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" 82\n"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test")
	client.baseURL = srv.URL

	reply, err := client.ScoreReview(context.Background(), testScoringContext(), testRefs(3))
	require.NoError(t, err)
	assert.Equal(t, "82", reply)

	assert.Equal(t, chatModel, got.Model)
	assert.Equal(t, 10, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOpenAIClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test")
	client.baseURL = srv.URL

	_, err := client.ScoreReview(context.Background(), testScoringContext(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test")
	client.baseURL = srv.URL

	_, err := client.SummarizeReviews(context.Background(), "Luigi's", []domain.ReviewDigest{{Rating: 4}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIClient_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test")
	client.baseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ScoreReview(ctx, testScoringContext(), nil)
	require.Error(t, err)
}

func TestCerebrasClient_UsesChatEndpoint(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"A friendly spot."}}]}`))
	}))
	defer srv.Close()

	client := NewCerebrasClient("csk-test")
	client.baseURL = srv.URL

	reply, err := client.SummarizeReviews(context.Background(), "Luigi's", []domain.ReviewDigest{{Rating: 4}})
	require.NoError(t, err)
	assert.Equal(t, "A friendly spot.", reply)
	assert.Equal(t, cerebrasModel, got.Model)
	assert.Equal(t, 500, got.MaxTokens)
}

func TestAnthropicClient_ScoreReview(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"64"}]}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient("ak-test")
	client.baseURL = srv.URL

	reply, err := client.ScoreReview(context.Background(), testScoringContext(), nil)
	require.NoError(t, err)
	assert.Equal(t, "64", reply)
	assert.Equal(t, scoringSystemPrompt, got.System)
	assert.Equal(t, 10, got.MaxTokens)
	require.Len(t, got.Messages, 1)
}

func TestAnthropicClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"error":{"type":"overloaded_error","message":"overloaded"}}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient("ak-test")
	client.baseURL = srv.URL

	_, err := client.ScoreReview(context.Background(), testScoringContext(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestMockClient_DelayRespectsContext(t *testing.T) {
	client := NewMockClient()
	client.Delay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.ScoreReview(ctx, testScoringContext(), testRefs(2))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, client.ScoreCalls, 1)
	assert.Equal(t, []int{2}, client.ScoreRefCounts)
}

func TestUnconfiguredClient(t *testing.T) {
	cfgErr := &domain.ConfigurationError{Message: "OpenAI API key not configured"}
	client := &UnconfiguredClient{Err: cfgErr}

	_, err := client.ScoreReview(context.Background(), testScoringContext(), nil)
	assert.True(t, domain.IsConfiguration(err))

	_, err = client.SummarizeReviews(context.Background(), "x", nil)
	assert.True(t, domain.IsConfiguration(err))
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		provider  string
		apiKey    string
		wantErr   bool
		wantNil   bool
		wantType  any
		errPrefix string
	}{
		{name: "openai", provider: "openai", apiKey: "sk-1", wantType: &OpenAIClient{}},
		{name: "openai mixed case", provider: " OpenAI ", apiKey: "sk-1", wantType: &OpenAIClient{}},
		{name: "anthropic", provider: "anthropic", apiKey: "ak-1", wantType: &AnthropicClient{}},
		{name: "cerebras", provider: "cerebras", apiKey: "ck-1", wantType: &CerebrasClient{}},
		{name: "mock needs no key", provider: "mock", wantType: &MockClient{}},
		{name: "none", provider: "none", wantNil: true},
		{name: "openai missing key", provider: "openai", wantErr: true, errPrefix: "OpenAI API key not configured"},
		{name: "openai placeholder key", provider: "openai", apiKey: PlaceholderAPIKey, wantErr: true, errPrefix: "OpenAI API key not configured"},
		{name: "gemini missing key", provider: "gemini", apiKey: "your_gemini_api_key_here", wantErr: true, errPrefix: "Gemini API key not configured"},
		{name: "unknown", provider: "llamafarm", apiKey: "x", wantErr: true, errPrefix: "unknown LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(ctx, tt.provider, tt.apiKey)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsConfiguration(err))
				assert.True(t, strings.HasPrefix(err.Error(), tt.errPrefix), err.Error())
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, client)
				return
			}
			assert.IsType(t, tt.wantType, client)
		})
	}
}

func TestIsPlaceholderKey(t *testing.T) {
	assert.True(t, IsPlaceholderKey(""))
	assert.True(t, IsPlaceholderKey("  "))
	assert.True(t, IsPlaceholderKey(PlaceholderAPIKey))
	assert.True(t, IsPlaceholderKey("your_anthropic_api_key_here"))
	assert.False(t, IsPlaceholderKey("sk-live-123"))
}
