package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tastechain/reviewscore/internal/api/handlers"
	mw "github.com/tastechain/reviewscore/internal/api/middleware"
	"github.com/tastechain/reviewscore/internal/buildconfig"
	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/llm"
	"github.com/tastechain/reviewscore/internal/service"
	"github.com/tastechain/reviewscore/internal/store"
)

// Deps are the collaborators the HTTP app is built from. LLMClient and
// ScoreStore may be nil.
type Deps struct {
	LLMClient  domain.LLMClient
	References []domain.ReferenceReview
	ScoreStore domain.ScoreStore

	Provider       string
	ScoringTimeout time.Duration
	SummaryTimeout time.Duration
	ScoresAPIKey   string
	RateLimitRPS   float64
	RateLimitBurst int

	// ScoreRetention enables ledger pruning when positive and a store is set.
	ScoreRetention time.Duration
}

// App holds the router and the process metrics.
type App struct {
	Router     *chi.Mux
	Confidence *service.ConfidenceService
	Scores     *service.ScoreService
	Metrics    *mw.Metrics

	// Retention is nil when ledger pruning is disabled.
	Retention *service.RetentionService

	provider   string
	references int
	startTime  time.Time
}

func NewApp(deps Deps, logger *zap.Logger) *App {
	// Services
	confidenceSvc := service.NewConfidenceService(deps.LLMClient, deps.References, deps.ScoreStore, logger)
	if deps.ScoringTimeout > 0 {
		confidenceSvc.ScoringTimeout = deps.ScoringTimeout
	}
	summarySvc := service.NewSummaryService(deps.LLMClient, logger)
	if deps.SummaryTimeout > 0 {
		summarySvc.SummaryTimeout = deps.SummaryTimeout
	}
	scoreSvc := service.NewScoreService(deps.ScoreStore, logger)

	var retentionSvc *service.RetentionService
	if deps.ScoreStore != nil && deps.ScoreRetention > 0 {
		retentionSvc = service.NewRetentionService(deps.ScoreStore, deps.ScoreRetention, logger)
	}

	metrics := &mw.Metrics{}

	// Handlers
	confidenceHandler := handlers.NewConfidenceHandler(confidenceSvc, metrics, logger)
	summaryHandler := handlers.NewSummaryHandler(summarySvc, logger)
	scoreHandler := handlers.NewScoreHandler(scoreSvc)

	r := chi.NewRouter()

	app := &App{
		Router:     r,
		Confidence: confidenceSvc,
		Scores:     scoreSvc,
		Metrics:    metrics,
		Retention:  retentionSvc,
		provider:   deps.Provider,
		references: len(deps.References),
		startTime:  time.Now(),
	}

	rps, burst := deps.RateLimitRPS, deps.RateLimitBurst
	if rps <= 0 {
		rps = 100
	}
	if burst <= 0 {
		burst = 20
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(rps, burst))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", app.healthHandler())
	r.Get("/metrics", app.metricsHandler())

	r.Route("/api/reviews", func(r chi.Router) {
		r.Post("/calculate-confidence", confidenceHandler.Calculate)
		r.Post("/summary", summaryHandler.Summarize)
	})

	// Score ledger reads
	r.Route("/v1/scores", func(r chi.Router) {
		r.Use(mw.BearerKeyAuth(deps.ScoresAPIKey))
		r.Get("/", scoreHandler.List)
		r.Get("/{id}", scoreHandler.GetByID)
	})

	return app
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := map[string]any{
			"status":     "ok",
			"version":    buildconfig.Version(),
			"provider":   app.provider,
			"references": app.references,
			"ledger":     app.Scores.Enabled(),
		}

		status := http.StatusOK
		if err := app.Scores.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			resp["status"] = "error"
			resp["error"] = err.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"requests":       app.Metrics.Snapshot(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.ScoreStore = (*store.PostgresScoreStore)(nil)
	_ domain.ScoreStore = (*store.MongoScoreStore)(nil)
	_ domain.LLMClient  = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient  = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient  = (*llm.GeminiClient)(nil)
	_ domain.LLMClient  = (*llm.CerebrasClient)(nil)
	_ domain.LLMClient  = (*llm.MockClient)(nil)
	_ domain.LLMClient  = (*llm.UnconfiguredClient)(nil)
)
