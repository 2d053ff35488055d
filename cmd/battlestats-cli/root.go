package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/use-agent/battlestats/models"
)

var rootCmd = &cobra.Command{
	Use:           "battlestats-cli",
	Short:         "battlestats-cli fetches CSSBattle player statistics with a local headless browser.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with exitCode(err).
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for a missing player and 1 for anything else.
func exitCode(err error) int {
	var se *models.ScrapeError
	if errors.As(err, &se) && se.Code == models.ErrCodeNotFound {
		return 2
	}
	return 1
}
