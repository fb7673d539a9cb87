package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/livebid/migrations/auction"
	"github.com/ghuser/livebid/pkg/app"
	"github.com/ghuser/livebid/pkg/cache"
	"github.com/ghuser/livebid/pkg/config"
	"github.com/ghuser/livebid/pkg/database"
	"github.com/ghuser/livebid/pkg/events"
	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/pkg/migrator"
	"github.com/ghuser/livebid/pkg/telemetry"
	appsvcs "github.com/ghuser/livebid/services/auction/application/services"
	domainevents "github.com/ghuser/livebid/services/auction/domain/events"
	"github.com/ghuser/livebid/services/auction/infrastructure/messaging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	if !cfg.EventsEnabled() {
		log.Error("DATABASE_URL is required: the worker consumes the Postgres event bus")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()

	if err := migrator.Up(ctx, pool.DB(), auction.FS); err != nil {
		log.Error("failed to apply migrations", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	bus, err := events.NewEventBus(pool.DB(), cfg.ServiceName+"-worker", log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer bus.Close() //nolint:errcheck

	a := &app.Application{Config: cfg, Logger: log, Db: pool, EventBus: bus}

	if cfg.RedisEnabled() {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		a.Redis = redisClient
		log.Info("redis connected")
	}

	if err := registerSubscribers(ctx, a); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	<-ctx.Done()
	// EventBus.Close (deferred) waits up to 30s for in-flight handlers.
	log.Info("shutting down worker...")
}

// registerSubscribers wires every domain event handler.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	recorder, err := appsvcs.NewWorker(a)
	if err != nil {
		return err
	}

	errCh, err := a.EventBus.Subscribe(ctx, domainevents.TopicBidAccepted,
		messaging.NewBidAcceptedHandler(recorder, a.Logger))
	if err != nil {
		return err
	}

	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", domainevents.TopicBidAccepted,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{domainevents.TopicBidAccepted})
	return nil
}
