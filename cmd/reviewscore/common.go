package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tastechain/reviewscore/internal/config"
	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/llm"
)

// Exit codes
const (
	exitInvalidInput = 2
	exitConfig       = 3
	exitIO           = 4
)

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// domainExit maps caller-visible domain errors to exit codes.
func domainExit(err error) error {
	var cfgErr *domain.ConfigurationError
	switch {
	case domain.IsInvalidInput(err):
		return exitError(exitInvalidInput, "invalid input: %v", err)
	case errors.As(err, &cfgErr):
		if cfgErr.Instructions != "" {
			return exitError(exitConfig, "%s\n%s", cfgErr.Message, cfgErr.Instructions)
		}
		return exitError(exitConfig, "%s", cfgErr.Message)
	default:
		return err
	}
}

// decodeFile reads a JSON or YAML file into v, chosen by extension.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

func newCLILogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openClient builds the LLM client for a CLI run. offline or provider "none"
// yields a nil client.
func openClient(ctx context.Context, provider string, offline bool) (domain.LLMClient, func(), error) {
	if offline {
		return nil, func() {}, nil
	}
	client, err := llm.NewClient(ctx, provider, config.APIKeyFor(strings.ToLower(provider)))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if closer, ok := client.(io.Closer); ok {
		closeFn = func() { _ = closer.Close() }
	}
	return client, closeFn, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
