package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tastechain/reviewscore/internal/config"
	"github.com/tastechain/reviewscore/internal/corpus"
	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/service"
)

type scoreFlags struct {
	corpus   string
	offline  bool
	provider string
	timeout  time.Duration
	verbose  bool
}

func newScoreCmd() *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score <request-file>",
		Short: "Calculate the confidence score of one review (JSON or YAML request)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), args[0], f, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.corpus, "corpus", config.CorpusSource(), "Reference corpus path or s3://bucket/key")
	flags.BoolVar(&f.offline, "offline", false, "Skip the model and score with the heuristic only")
	flags.StringVar(&f.provider, "provider", config.LLMProvider(), "LLM provider: openai, anthropic, gemini, cerebras, mock, none")
	flags.DurationVar(&f.timeout, "timeout", config.ScoringTimeout(), "Timeout for the model call")
	flags.BoolVar(&f.verbose, "verbose", false, "Log processing steps to stderr")

	return cmd
}

func runScore(ctx context.Context, requestPath string, f *scoreFlags, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newCLILogger(f.verbose)
	defer func() { _ = logger.Sync() }()

	var req domain.ScoreRequest
	if err := decodeFile(requestPath, &req); err != nil {
		if os.IsNotExist(err) {
			return exitError(exitIO, "failed to read request: %v", err)
		}
		return exitError(exitInvalidInput, "failed to parse request %s: %v", requestPath, err)
	}

	var refs []domain.ReferenceReview
	if !f.offline {
		var err error
		refs, err = corpus.Load(ctx, corpus.Options{
			Source:       f.corpus,
			AWSRegion:    config.AWSRegion(),
			AWSAccessKey: config.AWSAccessKeyID(),
			AWSSecretKey: config.AWSSecretAccessKey(),
		})
		if err != nil {
			return exitError(exitIO, "failed to load corpus: %v", err)
		}
	}

	client, closeClient, err := openClient(ctx, f.provider, f.offline)
	if err != nil {
		return domainExit(err)
	}
	defer closeClient()

	svc := service.NewConfidenceService(client, refs, nil, logger)
	if f.timeout > 0 {
		svc.ScoringTimeout = f.timeout
	}

	result, err := svc.Calculate(ctx, &req)
	if err != nil {
		return domainExit(err)
	}
	return writeJSON(out, result)
}
