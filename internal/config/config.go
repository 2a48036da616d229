package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file named by REVIEWSCORE_ENV (or .env by default),
// then the matching .secret sidecar if present. Variables already set in the
// environment win. All config is flat env vars read via os.Getenv afterwards.
func Load() error {
	envFile := os.Getenv("REVIEWSCORE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// LLMProvider returns the configured LLM provider, lowercased.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, gemini, cerebras, mock, none
func LLMProvider() string {
	p := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if p == "" {
		return "openai"
	}
	return p
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	return APIKeyFor(LLMProvider())
}

// APIKeyFor returns the API key for the named provider.
func APIKeyFor(provider string) string {
	switch provider {
	case "anthropic":
		return AnthropicAPIKey()
	case "gemini":
		return GeminiAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "mock", "none":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

func durationEnv(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// ScoringTimeout bounds the remote scoring call.
// Defaults to 5s if not set.
func ScoringTimeout() time.Duration {
	return durationEnv("SCORING_TIMEOUT", 5*time.Second)
}

// SummaryTimeout bounds the remote summary call.
// Defaults to 20s if not set.
func SummaryTimeout() time.Duration {
	return durationEnv("SUMMARY_TIMEOUT", 20*time.Second)
}

// CorpusSource is a local path or s3://bucket/key URI of the reference reviews.
// Defaults to "data/reviews.txt".
func CorpusSource() string {
	s := os.Getenv("CORPUS_SOURCE")
	if s == "" {
		return "data/reviews.txt"
	}
	return s
}

// StoreDriver selects the score ledger backend: postgres, mongo or none.
// Defaults to postgres when DATABASE_URL is set, otherwise none.
func StoreDriver() string {
	d := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	if d != "" {
		return d
	}
	if DatabaseURL() != "" {
		return "postgres"
	}
	return "none"
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MongoURI() string {
	return os.Getenv("MONGO_URI")
}

// MongoDatabase defaults to "reviewscore".
func MongoDatabase() string {
	db := os.Getenv("MONGO_DATABASE")
	if db == "" {
		return "reviewscore"
	}
	return db
}

// AWSRegion defaults to "us-east-1".
func AWSRegion() string {
	r := os.Getenv("AWS_REGION")
	if r == "" {
		return "us-east-1"
	}
	return r
}

func AWSAccessKeyID() string {
	return os.Getenv("AWS_ACCESS_KEY_ID")
}

func AWSSecretAccessKey() string {
	return os.Getenv("AWS_SECRET_ACCESS_KEY")
}

// ScoreRetention is how long ledger records are kept, from SCORE_RETENTION_DAYS.
// Zero, the default, keeps them forever.
func ScoreRetention() time.Duration {
	days, err := strconv.Atoi(os.Getenv("SCORE_RETENTION_DAYS"))
	if err != nil || days <= 0 {
		return 0
	}
	return time.Duration(days) * 24 * time.Hour
}

// ScoresAPIKey guards the score ledger endpoints. Empty disables the guard.
func ScoresAPIKey() string {
	return os.Getenv("SCORES_API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
