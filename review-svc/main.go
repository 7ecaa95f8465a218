package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZYL1107/next-platform-starter/config"
	httpapi "github.com/ZYL1107/next-platform-starter/review-svc/internal/api/http"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/gate"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/metrics"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/service"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/storage"
)

const serviceName = "review-svc"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(serviceName, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	backend, closeBackend, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open content store")
	}
	defer closeBackend()

	availability := gate.FromEnvironment(os.Environ)

	var publisher service.ReviewPublisher
	if writer := config.NewKafkaWriter(cfg.Kafka); writer != nil {
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		logger.Info().Msg("kafka broker not configured, review events disabled")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           buildRouter(cfg, backend, availability, publisher, logger, m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", server.Addr).
		Str("driver", cfg.Store.Driver).
		Bool("backend_available", availability.IsAvailable()).
		Msg("review service starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (storage.ContentStore, func(), error) {
	switch cfg.Store.Driver {
	case "redis":
		client := config.MustInitRedis(cfg.Redis)
		return storage.NewRedisStore(client), func() { _ = client.Close() }, nil
	case "postgres":
		db := config.MustInitPostgres(cfg.Postgres)
		store := storage.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// buildRouter puts the breaker in front of the backend and wires both services
// into the HTTP surface.
func buildRouter(cfg *config.Config, backend storage.ContentStore, availability gate.Gate, publisher service.ReviewPublisher, logger zerolog.Logger, m *metrics.Metrics) http.Handler {
	store := storage.NewBreakerStore(backend, storage.BreakerSettings{
		Name:         "content-store",
		Timeout:      cfg.Breaker.Timeout,
		MinRequests:  cfg.Breaker.MinRequests,
		FailureRatio: cfg.Breaker.FailureRatio,
	}, logger, m)

	reviews := service.NewReviewService(store, availability, publisher, logger, m)
	stats := service.NewStatsService(store, availability, reviews, logger, m)
	shareCodes := service.DefaultShareCodeGenerator{BaseURL: cfg.HTTP.PublicBaseURL}

	return httpapi.NewRouter(httpapi.NewHandler(reviews, stats, shareCodes, m, logger))
}
