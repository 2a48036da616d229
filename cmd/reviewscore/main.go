package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tastechain/reviewscore/internal/buildconfig"
	"github.com/tastechain/reviewscore/internal/config"
)

func main() {
	_ = config.Load()

	root := &cobra.Command{
		Use:           "reviewscore",
		Short:         "Score restaurant reviews for trustworthiness",
		Version:       buildconfig.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newScoreCmd())
	root.AddCommand(newSummarizeCmd())

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
