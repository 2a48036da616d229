package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tastechain/reviewscore/internal/api"
	"github.com/tastechain/reviewscore/internal/config"
	"github.com/tastechain/reviewscore/internal/corpus"
	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/llm"
	"github.com/tastechain/reviewscore/internal/store"
)

func main() {
	_ = config.Load()

	logger, err := newLogger(config.LogLevel())
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	refs, err := corpus.Load(ctx, corpus.Options{
		Source:       config.CorpusSource(),
		AWSRegion:    config.AWSRegion(),
		AWSAccessKey: config.AWSAccessKeyID(),
		AWSSecretKey: config.AWSSecretAccessKey(),
	})
	if err != nil {
		logger.Fatal("failed to load reference corpus", zap.String("source", config.CorpusSource()), zap.Error(err))
	}
	logger.Info("reference corpus loaded", zap.Int("references", len(refs)))

	provider := config.LLMProvider()
	llmClient, err := llm.NewClient(ctx, provider, config.LLMAPIKey())
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if !errors.As(err, &cfgErr) {
			logger.Fatal("LLM client initialization failed", zap.String("provider", provider), zap.Error(err))
		}
		// Keep serving; scoring requests report the problem.
		logger.Warn("LLM provider not configured", zap.String("provider", provider), zap.Error(err))
		llmClient = &llm.UnconfiguredClient{Err: cfgErr}
	} else if llmClient == nil {
		logger.Info("LLM disabled, scoring with heuristic only")
	} else {
		logger.Info("LLM client initialized", zap.String("provider", provider))
	}
	if closer, ok := llmClient.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	scoreStore, closeStore, err := openScoreStore(ctx, logger)
	if err != nil {
		logger.Fatal("failed to open score ledger", zap.String("driver", config.StoreDriver()), zap.Error(err))
	}
	defer closeStore()

	app := api.NewApp(api.Deps{
		LLMClient:      llmClient,
		References:     refs,
		ScoreStore:     scoreStore,
		Provider:       provider,
		ScoringTimeout: config.ScoringTimeout(),
		SummaryTimeout: config.SummaryTimeout(),
		ScoresAPIKey:   config.ScoresAPIKey(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
		ScoreRetention: config.ScoreRetention(),
	}, logger)

	if app.Retention != nil {
		app.Retention.Start()
	}

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	if app.Retention != nil {
		app.Retention.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// openScoreStore connects the configured ledger backend. The returned store is
// nil when recording is disabled.
func openScoreStore(ctx context.Context, logger *zap.Logger) (domain.ScoreStore, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch driver := config.StoreDriver(); driver {
	case "postgres":
		if config.DatabaseURL() == "" {
			return nil, nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		pool, err := store.ConnectPostgres(connectCtx, config.DatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(connectCtx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("score ledger connected", zap.String("driver", driver))
		return store.NewPostgresScoreStore(pool), pool.Close, nil

	case "mongo":
		if config.MongoURI() == "" {
			return nil, nil, errors.New("MONGO_URI is required for the mongo driver")
		}
		client, err := store.ConnectMongo(connectCtx, config.MongoURI())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("score ledger connected", zap.String("driver", driver), zap.String("database", config.MongoDatabase()))
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return store.NewMongoScoreStore(client, config.MongoDatabase()), closeFn, nil

	case "none":
		logger.Info("score ledger disabled")
		return nil, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q (valid options: postgres, mongo, none)", driver)
	}
}
