package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pevans/scribble"
	"github.com/pevans/scribble/api"
	"github.com/pevans/scribble/config"
	"github.com/pevans/scribble/fetch"
)

func main() {
	appConfig, err := loadConfig(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appConfig.Debug {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, appConfig *AppConfig, logger *slog.Logger) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	c, closeCache, err := settings.OpenCache(ctx, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	store, err := config.NewConfigStore(appConfig.ConfigDB)
	if err != nil {
		return err
	}
	defer store.Close()

	fetcher := fetch.NewRestyFetcher(&fetch.Options{
		CloudflareBypass: settings.CloudflareBypass,
		Logger:           logger,
	})
	client := scribble.NewClient(fetcher, c, settings.ClientConfig(logger))

	// Settings changed through the API outlive restarts
	overrides, err := store.GetOverrides()
	if err != nil {
		return err
	}
	overrides.Apply(client)

	server := api.NewServer(client, store)
	httpServer := &http.Server{
		Addr:         appConfig.Addr(),
		Handler:      server.SetupRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*settings.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting scribble API server", "addr", "http://"+appConfig.Addr()+"/api/v1")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
