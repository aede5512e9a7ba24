package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pevans/scribble"
	"github.com/pevans/scribble/config"
	"github.com/pevans/scribble/fetch"
	"github.com/spf13/cobra"
)

// errNoResult is returned when the client gave nothing back; the reason has
// already been logged.
var errNoResult = errors.New("no result (rerun with --verbose for details)")

var (
	jsonOutput bool
	verbose    bool

	client     *scribble.Client
	closeCache = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:           "scribble",
	Short:         "scribble reads stories, users and listings from Scribble Hub.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `scribble reads stories, users and listings from Scribble Hub.

Configuration is read from ~/.scribble/config.yaml and overridden by:
  SCRIBBLE_USER_AGENT         User-Agent sent with every request
  SCRIBBLE_REFERRER           Referrer sent with story page requests
  SCRIBBLE_TIMEOUT            Per-request timeout (e.g. 10s)
  SCRIBBLE_CLOUDFLARE_BYPASS  Use the Cloudflare bypass transport (true/false)
  SCRIBBLE_CACHE_TYPE         Cache storage: memory, sqlite or file
  SCRIBBLE_CACHE_DSN          Cache database path or directory`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupClient(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeCache()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and failures to stderr")
}

// setupClient builds the client from the resolved settings.
func setupClient(cmd *cobra.Command) error {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, closeFn, err := settings.OpenCache(cmd.Context(), logger)
	if err != nil {
		return err
	}
	closeCache = closeFn

	fetcher := fetch.NewRestyFetcher(&fetch.Options{
		CloudflareBypass: settings.CloudflareBypass,
		Logger:           logger,
	})
	client = scribble.NewClient(fetcher, c, settings.ClientConfig(logger))
	return nil
}
