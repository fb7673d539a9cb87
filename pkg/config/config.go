package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	ServerAddr string `conf:"default::4000,env:SERVER_ADDR"`

	// Database backs the event bus and the bid archive. Empty disables both;
	// the bid path itself is always in-memory.
	DatabaseURL string `conf:"env:DATABASE_URL,noprint"`
	// Redis backs the bid history read model. Empty disables it.
	RedisURL string `conf:"env:REDIS_URL"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`

	// CORS: comma-separated list of allowed origins; use * to allow all (dev only)
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`

	// Auction seeding: the first lot closes SeedAuctionDuration after start,
	// each following lot SeedStagger later than the previous one.
	SeedAuctionDuration time.Duration `conf:"default:5m,env:SEED_AUCTION_DURATION"`
	SeedStagger         time.Duration `conf:"default:1m,env:SEED_STAGGER"`

	// Websocket gateway
	WSSendBuffer      int           `conf:"default:256,env:WS_SEND_BUFFER"`
	WSWriteWait       time.Duration `conf:"default:10s,env:WS_WRITE_WAIT"`
	WSPongWait        time.Duration `conf:"default:60s,env:WS_PONG_WAIT"`
	WSMaxMessageBytes int64         `conf:"default:4096,env:WS_MAX_MESSAGE_BYTES"`

	// Bid events
	BidHistorySize int `conf:"default:50,env:BID_HISTORY_SIZE"`
	BidEventBuffer int `conf:"default:1024,env:BID_EVENT_BUFFER"`

	// Observability
	ServiceName    string `conf:"default:livebid,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"env:OTEL_ENDPOINT"`
	SentryDSN      string `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// EventsEnabled reports whether the Postgres-backed event bus is configured.
func (c *Config) EventsEnabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// RedisEnabled reports whether the Redis read model is configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// ValidateForProduction enforces safety requirements when ENVIRONMENT=production.
// Returns an error if any critical settings are missing or unsafe.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if strings.TrimSpace(cfg.CORSAllowedOrigins) == "*" {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must list explicit origins in production")
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if cfg.SentryDSN == "" {
		errs = append(errs, "SENTRY_DSN must be set in production")
	}

	if cfg.WSSendBuffer <= 0 {
		errs = append(errs, fmt.Sprintf("WS_SEND_BUFFER must be positive (got %d)", cfg.WSSendBuffer))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
