package config

import (
	"strings"
	"testing"
)

func productionConfig() *Config {
	return &Config{
		Environment:        EnvProduction,
		LogLevel:           "info",
		CORSAllowedOrigins: "https://bids.example.com",
		SentryDSN:          "https://key@sentry.example.com/1",
		WSSendBuffer:       256,
	}
}

func TestValidateForProduction_NonProductionNoop(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, CORSAllowedOrigins: "*", LogLevel: "debug"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("expected nil for development, got %v", err)
	}
}

func TestValidateForProduction_Valid(t *testing.T) {
	if err := ValidateForProduction(productionConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateForProduction_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"wildcard cors", func(c *Config) { c.CORSAllowedOrigins = " * " }, "CORS_ALLOWED_ORIGINS"},
		{"debug logging", func(c *Config) { c.LogLevel = "debug" }, "LOG_LEVEL"},
		{"missing sentry", func(c *Config) { c.SentryDSN = "" }, "SENTRY_DSN"},
		{"zero send buffer", func(c *Config) { c.WSSendBuffer = 0 }, "WS_SEND_BUFFER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := productionConfig()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %s", err, tt.wantMsg)
			}
		})
	}
}

func TestOptionalBackends(t *testing.T) {
	cfg := &Config{}
	if cfg.EventsEnabled() || cfg.RedisEnabled() {
		t.Fatal("empty URLs must disable optional backends")
	}
	cfg.DatabaseURL = "postgres://localhost:5432/livebid"
	cfg.RedisURL = "redis://localhost:6379"
	if !cfg.EventsEnabled() || !cfg.RedisEnabled() {
		t.Fatal("configured URLs must enable optional backends")
	}
}
