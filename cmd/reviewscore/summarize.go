package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tastechain/reviewscore/internal/config"
	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/service"
)

type summarizeFlags struct {
	restaurant string
	provider   string
	timeout    time.Duration
	verbose    bool
}

func newSummarizeCmd() *cobra.Command {
	f := &summarizeFlags{}

	cmd := &cobra.Command{
		Use:   "summarize <reviews-file>",
		Short: "Summarize a restaurant's reviews (JSON or YAML list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd.Context(), args[0], f, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.restaurant, "restaurant", "", "Restaurant name used in the summary")
	flags.StringVar(&f.provider, "provider", config.LLMProvider(), "LLM provider: openai, anthropic, gemini, cerebras, mock")
	flags.DurationVar(&f.timeout, "timeout", config.SummaryTimeout(), "Timeout for the model call")
	flags.BoolVar(&f.verbose, "verbose", false, "Log processing steps to stderr")

	return cmd
}

func runSummarize(ctx context.Context, reviewsPath string, f *summarizeFlags, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newCLILogger(f.verbose)
	defer func() { _ = logger.Sync() }()

	var reviews []domain.ReviewDigest
	if err := decodeFile(reviewsPath, &reviews); err != nil {
		if os.IsNotExist(err) {
			return exitError(exitIO, "failed to read reviews: %v", err)
		}
		return exitError(exitInvalidInput, "failed to parse reviews %s: %v", reviewsPath, err)
	}

	client, closeClient, err := openClient(ctx, f.provider, false)
	if err != nil {
		return domainExit(err)
	}
	defer closeClient()

	svc := service.NewSummaryService(client, logger)
	if f.timeout > 0 {
		svc.SummaryTimeout = f.timeout
	}

	summary, err := svc.Summarize(ctx, f.restaurant, reviews)
	if err != nil {
		return domainExit(err)
	}
	return writeJSON(out, summary)
}
