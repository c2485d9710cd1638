package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lamppost-labs/geomap/internal/config"
	"github.com/lamppost-labs/geomap/internal/extractor"
	"github.com/lamppost-labs/geomap/internal/geocoding"
	"github.com/lamppost-labs/geomap/internal/mapdraw"
	"github.com/lamppost-labs/geomap/internal/metrics"
	"github.com/lamppost-labs/geomap/internal/models"
	"github.com/lamppost-labs/geomap/internal/repository"
	"github.com/lamppost-labs/geomap/internal/server"
	"github.com/lamppost-labs/geomap/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Build the location table source. Only the postgres source needs a
	// database connection; file sources read the dataset path directly.
	var pinger server.Pinger
	sourceConfig := repository.SourceConfig{
		Type:   repository.SourceType(cfg.SourceType),
		Path:   cfg.DatasetPath,
		Logger: logger,
	}
	if sourceConfig.Type == repository.SourceTypePostgres {
		dtb, err := repository.NewDatabase(
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()
		sourceConfig.DB = dtb
		pinger = dtb
	}

	source, err := repository.NewSource(sourceConfig)
	if err != nil {
		log.Fatalf("Failed to create location source: %v", err)
	}

	// The location table is loaded once and held immutable for the life of
	// the process.
	locations, err := source.LoadLocations(ctx)
	if err != nil {
		log.Fatalf("Failed to load location table: %v", err)
	}

	// Load the postal-code extraction model from its fixed directory.
	ext, err := extractor.Load(cfg.ModelDir, logger)
	if err != nil {
		log.Fatalf("Failed to load postal code model: %v", err)
	}

	// Create the primary geocoding provider using the factory pattern based
	// on configuration. This allows runtime selection between providers
	// (Nominatim, Google, etc.)
	primary, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)

	// The offline postal dataset backs the fallback tier of the chain.
	fallback, err := geocoding.NewPostalTableProvider(cfg.PostalDataset, logger)
	if err != nil {
		log.Fatalf("Failed to load offline postal dataset: %v", err)
	}

	chain := geocoding.NewChain(primary, fallback, models.RegionSingapore, logger)
	chain.OnFallback = appMetrics.GeocodeFallbacks.Inc

	renderer, err := mapdraw.NewRenderer(cfg.MapsDir, logger)
	if err != nil {
		log.Fatalf("Failed to create map renderer: %v", err)
	}

	// Init the query service over the loaded table and collaborators.
	queryService := service.NewQueryService(
		logger,
		locations,
		ext,
		chain,
		cfg.ProviderType, // Provider name for metrics
		renderer,
		appMetrics,
	)

	logger.InfoContext(ctx, "Location table ready", "records", queryService.TableSize())

	srv := server.New(logger, queryService, cfg.MapsDir, pinger, reg)

	readTimeout := 5
	writeTimeout := 30
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "port", cfg.Port)

	// Start the HTTP server in a goroutine to allow main to listen for signals.
	go func() {
		if errServe := httpServer.ListenAndServe(); errServe != nil &&
			!errors.Is(errServe, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", errServe)
			stop()
		}
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownTimeout := 5
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(ctx, "Failed to shut down HTTP server gracefully", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
