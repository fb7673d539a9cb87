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

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	_ "github.com/ghuser/livebid/docs/swagger"
	"github.com/ghuser/livebid/pkg/app"
	"github.com/ghuser/livebid/pkg/cache"
	"github.com/ghuser/livebid/pkg/config"
	"github.com/ghuser/livebid/pkg/database"
	"github.com/ghuser/livebid/pkg/events"
	"github.com/ghuser/livebid/pkg/httpx"
	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/pkg/telemetry"
	auctionApi "github.com/ghuser/livebid/services/auction/application/api"
	appsvcs "github.com/ghuser/livebid/services/auction/application/services"
	"github.com/ghuser/livebid/services/auction/infrastructure/messaging"
)

// @title			LiveBid API
// @version		1.0
// @description	Real-time auction bidding. Bids are placed over the /ws websocket or POST /api/items/{id}/bids.
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:4000
// @BasePath		/api
// @schemes		http https
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

	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Sentry is optional: log and continue on failure.
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	metrics, err := telemetry.NewAuctionMetrics(otel.Meter(telemetry.MeterName))
	if err != nil {
		log.Error("failed to create auction metrics", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}

	a := &app.Application{Config: cfg, Logger: log, Metrics: metrics}
	health := httpx.HealthChecks{}

	var relay *messaging.BidRelay
	if cfg.EventsEnabled() {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer pool.Close()

		bus, err := events.NewEventBus(pool.DB(), cfg.ServiceName+"-consumer", log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer bus.Close() //nolint:errcheck

		a.Db, a.EventBus = pool, bus
		health["database"] = pool
		health["event_bus"] = bus
		relay = messaging.NewBidRelay(bus, log, cfg.BidEventBuffer)
		relay.Start()
		log.Info("event bus connected")
	} else {
		log.Warn("DATABASE_URL not set, accepted bids are not published")
	}

	if cfg.RedisEnabled() {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		a.Redis = redisClient
		health["redis"] = redisClient
		log.Info("redis connected")
	}

	var hooks []appsvcs.AcceptHook
	if relay != nil {
		hooks = append(hooks, relay.Enqueue)
	}
	auction, err := auctionApi.New(a, hooks...)
	if err != nil {
		log.Error("failed to wire auction module", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	health["store"] = httpx.HealthCheckFunc(func(context.Context) error {
		if len(auction.Services.Bids.ListItems()) == 0 {
			return errors.New("auction store is empty")
		}
		return nil
	})

	serverCfg := httpx.ServerConfig{
		ServiceName:        cfg.ServiceName,
		IsDevelopment:      cfg.Environment == config.EnvDevelopment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := httpx.NewRouter(
		serverCfg,
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Handle("/ws", auction.WebsocketHandler())
	r.Group(func(r chi.Router) {
		r.Use(httpx.APIMiddlewares(serverCfg)...)
		r.Get("/health", httpx.HealthHandler(health))
		r.Get("/metrics", metricsHandler.ServeHTTP)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
		r.Route("/api", auction.AuctionRoutes)
		auction.LegacyRoutes(r)
	})

	srv := httpx.NewServer(cfg.ServerAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown does not track hijacked connections; close them first.
	auction.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	if relay != nil {
		relay.Close()
		if n := relay.Dropped(); n > 0 {
			log.Warn("bid events dropped during run", "count", n)
		}
	}
	log.Info("server stopped")
}
