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
	"sync"
	"syscall"
	"time"

	"github.com/UnknownOlympus/skypark/internal/api"
	"github.com/UnknownOlympus/skypark/internal/config"
	"github.com/UnknownOlympus/skypark/internal/geo"
	"github.com/UnknownOlympus/skypark/internal/gmaps"
	"github.com/UnknownOlympus/skypark/internal/location"
	"github.com/UnknownOlympus/skypark/internal/metrics"
	"github.com/UnknownOlympus/skypark/internal/models"
	"github.com/UnknownOlympus/skypark/internal/proximity"
	"github.com/UnknownOlympus/skypark/internal/repository"
	"github.com/UnknownOlympus/skypark/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const (
	storageMemory   = "memory"
	storagePostgres = "postgres"
)

const shutdownTimeout = 5 * time.Second

// pinger is satisfied by the database pool and reports storage health.
type pinger interface {
	Ping(ctx context.Context) error
}

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

	repo, health, closeStorage, err := newRepository(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	gate, err := resolveGate(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to resolve gate: %v", err)
	}

	source, err := location.NewSource(location.SourceConfig{
		Type:      location.SourceType(cfg.Location.SourceType),
		Position:  gate.Coordinates,
		Interval:  cfg.Location.Interval,
		Timeout:   cfg.Location.Timeout,
		APIKey:    cfg.Maps.APIKey,
		RateLimit: cfg.Maps.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create location source: %v", err)
	}
	logger.InfoContext(ctx, "Location source initialized", "type", cfg.Location.SourceType)

	matcher := proximity.NewMatcher(geo.NewCalculator(cfg.Proximity.EarthRadiusKm), gate, cfg.Proximity.GateRadiusKm)
	parking := service.NewParkingService(logger, repo, matcher, source, appMetrics)

	// Readings are only accepted over HTTP when the push source is selected.
	push, _ := source.(*location.PushSource)
	handler := api.NewHandler(api.Options{
		Logger:  logger,
		Parking: parking,
		Repo:    repo,
		Push:    push,
		Zones:   repository.DefaultZones(),
		Gate:    gate,
		MapsKey: cfg.Maps.APIKey,
	})

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		"gate", gate.Name, "radius_km", cfg.Proximity.GateRadiusKm)

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		startMonitoringServer(ctx, logger, reg, health, cfg.MonitoringPort)
	}()
	go func() {
		defer wg.Done()
		startAPIServer(ctx, logger, api.NewRouter(handler), cfg.Port)
	}()
	go func() {
		defer wg.Done()
		parking.Run(ctx)
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	wg.Wait()
	closeStorage()

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// newRepository builds the spot repository selected by cfg.StorageType and seeds it with the
// default layout. The returned pinger is nil for in-memory storage. The close function
// releases storage resources and must run after every user of the repository has stopped.
func newRepository(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (repository.SpotRepository, pinger, func(), error) {
	switch cfg.StorageType {
	case storageMemory:
		return repository.NewMemory(repository.DefaultSpots()), nil, func() {}, nil
	case storagePostgres:
		dtb, err := repository.NewDatabase(ctx,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}

		repo := repository.NewPostgres(dtb, logger)
		if err = repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, nil, nil, err
		}
		if err = repo.Seed(ctx, repository.DefaultSpots()); err != nil {
			repo.Close()
			return nil, nil, nil, err
		}

		return repo, dtb, repo.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// resolveGate returns the configured gate. When an address is set it is geocoded with
// Google Maps, which requires an API key.
func resolveGate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (models.ReferencePoint, error) {
	gate := models.ReferencePoint{
		Name: cfg.Proximity.GateName,
		Coordinates: models.Coordinates{
			Latitude:  cfg.Proximity.GateLatitude,
			Longitude: cfg.Proximity.GateLongitude,
		},
	}
	if cfg.Proximity.GateAddress == "" {
		return gate, geo.Validate(gate.Coordinates)
	}

	client, err := gmaps.NewClient(cfg.Maps.APIKey, cfg.Maps.RateLimit)
	if err != nil {
		return models.ReferencePoint{}, err
	}

	resolved, err := gmaps.NewGateResolver(client, logger).Resolve(ctx, gate.Name, cfg.Proximity.GateAddress)
	if err != nil {
		return models.ReferencePoint{}, err
	}
	logger.InfoContext(ctx, "Gate resolved from address",
		"address", cfg.Proximity.GateAddress,
		"lat", resolved.Coordinates.Latitude,
		"lng", resolved.Coordinates.Longitude)

	return resolved, nil
}

// startAPIServer serves the parking API until ctx is cancelled.
func startAPIServer(ctx context.Context, log *slog.Logger, handler http.Handler, port int) {
	log.InfoContext(ctx, "Starting API server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	serveUntilDone(ctx, log, server, "API server")
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - health: Storage health check (ping); nil when storage is in memory.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	health pinger,
	port int,
) {
	http.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if health != nil {
			if err := health.Ping(req.Context()); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      http.DefaultServeMux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	serveUntilDone(ctx, log, server, "Monitoring server")
}

// serveUntilDone runs server and shuts it down once ctx is cancelled. It returns after
// in-flight requests have drained or shutdownTimeout has passed.
func serveUntilDone(ctx context.Context, log *slog.Logger, server *http.Server, name string) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, name+" failed", "error", err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down "+name, "error", err)
	}
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
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
