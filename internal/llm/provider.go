package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tastechain/reviewscore/internal/domain"
)

// Provider names the LLM provider type.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderCerebras  Provider = "cerebras"
	ProviderMock      Provider = "mock"
	ProviderNone      Provider = "none"
)

// PlaceholderAPIKey is the value shipped in the sample env file.
const PlaceholderAPIKey = "your_openai_api_key_here"

var keyEnvNames = map[Provider]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderCerebras:  "CEREBRAS_API_KEY",
}

var providerLabels = map[Provider]string{
	ProviderOpenAI:    "OpenAI",
	ProviderAnthropic: "Anthropic",
	ProviderGemini:    "Gemini",
	ProviderCerebras:  "Cerebras",
}

// KeyEnvName returns the environment variable holding the provider's API key,
// or "" for providers that need none.
func KeyEnvName(p Provider) string {
	return keyEnvNames[p]
}

// IsPlaceholderKey reports whether apiKey is empty or still the sample value.
func IsPlaceholderKey(apiKey string) bool {
	k := strings.TrimSpace(apiKey)
	if k == "" || k == PlaceholderAPIKey {
		return true
	}
	return strings.HasPrefix(k, "your_") && strings.HasSuffix(k, "_here")
}

func missingKeyError(p Provider) *domain.ConfigurationError {
	return &domain.ConfigurationError{
		Message:      fmt.Sprintf("%s API key not configured", providerLabels[p]),
		Instructions: fmt.Sprintf("Please add your %s API key to the .env file as %s", providerLabels[p], keyEnvNames[p]),
	}
}

// NewClient creates an LLM client for the given provider. ProviderNone yields a
// nil client; callers then score with the heuristic only. A missing or
// placeholder key yields a *domain.ConfigurationError.
func NewClient(ctx context.Context, provider, apiKey string) (domain.LLMClient, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(provider)))

	if _, needsKey := keyEnvNames[p]; needsKey && IsPlaceholderKey(apiKey) {
		return nil, missingKeyError(p)
	}

	switch p {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey), nil

	case ProviderAnthropic:
		return NewAnthropicClient(apiKey), nil

	case ProviderGemini:
		client, err := NewGeminiClient(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil

	case ProviderCerebras:
		return NewCerebrasClient(apiKey), nil

	case ProviderMock:
		return NewMockClient(), nil

	case ProviderNone:
		return nil, nil

	default:
		return nil, &domain.ConfigurationError{
			Message:      fmt.Sprintf("unknown LLM provider: %s", provider),
			Instructions: "Set LLM_PROVIDER to one of: openai, anthropic, gemini, cerebras, mock, none",
		}
	}
}
