package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dish-analyzer/internal/config"
	"dish-analyzer/internal/database"
	"dish-analyzer/internal/handler"
	"dish-analyzer/internal/metrics"
	"dish-analyzer/internal/middleware"
	"dish-analyzer/internal/repository"
	"dish-analyzer/internal/router"
	"dish-analyzer/internal/service"
	"dish-analyzer/internal/sheet"

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
	logger := config.NewLogger(cfg.Logger, os.Stdout)
	logger.Info().Msg("starting dish analyzer server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reference catalogue: Postgres when enabled, otherwise in memory
	catalogue, closeCatalogue, err := newCatalogue(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCatalogue()

	m := metrics.New()

	// Spreadsheet sources with S3 and local fallback
	source := newSource(ctx, cfg, logger)

	// Initialize services
	analysisService := service.NewAnalysisService(source, catalogue, m, service.AnalysisOptions{
		Thresholds:   cfg.Analysis.Thresholds(),
		UseCatalogue: cfg.Analysis.UseCatalogue,
		Timeout:      cfg.Analysis.Timeout,
	}, logger)
	ingredientService := service.NewIngredientService(catalogue, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Dashboard:  handler.NewDashboardHandler(analysisService, cfg.Theme, cfg.Analysis.TemplateGroups, cfg.Upload.MaxBytes, logger),
		Analysis:   handler.NewAnalysisHandler(analysisService, m, cfg.Theme, cfg.Upload.MaxBytes, logger),
		Ingredient: handler.NewIngredientHandler(ingredientService, logger),
	}

	opts := router.Options{APIKey: cfg.Auth.Key, Metrics: m}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(handlers, opts, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

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

// newCatalogue opens the reference catalogue and seeds it with the default
// ingredients when it is empty.
func newCatalogue(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.IngredientRepository, func(), error) {
	if !cfg.Database.Enabled {
		logger.Info().Msg("using in-memory reference catalogue (database disabled)")
		return repository.NewMemoryRepository(repository.DefaultCatalogue(), logger), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	repo := repository.NewIngredientRepository(pool, logger)
	seeded, err := repository.SeedIfEmpty(ctx, repo, repository.DefaultCatalogue())
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if seeded > 0 {
		logger.Info().Int("ingredients", seeded).Msg("seeded reference catalogue")
	}

	return repo, pool.Close, nil
}

func newSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) sheet.Source {
	fileSource := sheet.NewFileSource(cfg.Sheets.Dir, logger)
	if !cfg.S3.Enabled {
		logger.Info().Str("dir", cfg.Sheets.Dir).Msg("using local file system for spreadsheets (S3 disabled)")
		return fileSource
	}

	s3Source, err := sheet.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 source, falling back to local file system only")
		return fileSource
	}
	return sheet.NewFallbackSource(s3Source, fileSource, cfg.S3.Prefix, true, logger)
}
