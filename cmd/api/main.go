package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-panel/internal/config"
	"product-panel/internal/database"
	"product-panel/internal/handler"
	"product-panel/internal/panel"
	"product-panel/internal/repository"
	"product-panel/internal/router"
	"product-panel/internal/service"
	"product-panel/internal/theme"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting product-panel server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize payload store
	store, closeStore, err := newPayloadStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize payload store: %w", err)
	}
	defer closeStore()

	// Initialize feed and panel
	feed := service.NewProductFeed(&http.Client{}, store, cfg.Source.StorageKey, logger)
	productPanel := panel.New(feed, theme.Dark(), logger)
	productPanel.Mount(ctx, cfg.Source.URL)

	// Initialize HTTP handlers
	panelHandler := handler.NewPanelHandler(productPanel, logger)

	// Initialize router
	mux := router.New(panelHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server. No write timeout: /api/panel/events streams.
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("source", cfg.Source.URL).
			Str("cache_backend", cfg.Cache.Backend).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Ends in-flight fetches and open event streams
		cancel()

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newPayloadStore builds the configured cache backend. The returned func releases its connections.
func newPayloadStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.PayloadStore, func(), error) {
	noop := func() {}

	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		return repository.NewMemoryStore(), noop, nil

	case config.CacheBackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresStore(pool, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case config.CacheBackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStore(client, logger), func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close redis client")
			}
		}, nil

	case config.CacheBackendS3:
		store, err := repository.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	default:
		store, err := repository.NewFileStore(cfg.Cache.Dir, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	}
}
