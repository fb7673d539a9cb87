package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthChecker is satisfied by any dependency exposing Ping
// (database.Database, cache.RedisClient and events.EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Ping calls f.
func (f HealthCheckFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthChecks maps a dependency name to its checker. Only configured
// dependencies are registered, so optional backends never show as down.
type HealthChecks map[string]HealthChecker

type healthResponse struct {
	OK     bool              `json:"ok"`
	Status string            `json:"status"`
	TS     string            `json:"ts"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler probes every registered checker and answers 200 when all
// succeed, 503 otherwise.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			OK:     true,
			Status: "ok",
			TS:     time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
			Checks: make(map[string]string, len(names)),
		}
		for _, name := range names {
			if err := checks[name].Ping(ctx); err != nil {
				resp.OK = false
				resp.Status = "degraded"
				resp.Checks[name] = "unreachable"
				continue
			}
			resp.Checks[name] = "ok"
		}

		status := http.StatusOK
		if !resp.OK {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
