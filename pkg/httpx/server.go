package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// ServerConfig holds the options for NewRouter and APIMiddlewares.
type ServerConfig struct {
	ServiceName   string
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string
	// RateLimit is requests per minute per IP on API routes. Zero means 100.
	RateLimit int
}

// NewRouter returns a chi.Mux carrying the middleware every route shares,
// long-lived websocket connections included. Pass app-specific middlewares
// (logger, recovery, sentry, otel); request-scoped limits belong on route
// groups via APIMiddlewares.
//
// Middleware order (outermost → innermost):
//  1. recoveryMiddleware: catches panics that re-panic from sentry
//  2. sentryMiddleware: captures panics, re-panics (Repanic: true)
//  3. RequestID: unique X-Request-Id per request
//  4. otelMiddleware: starts trace span per request
//  5. loggerMiddleware: logs request + trace_id/span_id
//  6. RealIP: sets RemoteAddr from X-Forwarded-For
//  7. CORS: cross-origin preflight and headers
func NewRouter(
	cfg ServerConfig,
	loggerMiddleware func(http.Handler) http.Handler,
	recoveryMiddleware func(http.Handler) http.Handler,
	sentryMiddleware func(http.Handler) http.Handler,
	otelMiddleware func(http.Handler) http.Handler,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(
		recoveryMiddleware,
		sentryMiddleware,
		middleware.RequestID,
		otelMiddleware,
		loggerMiddleware,
		middleware.RealIP,
		CORSMiddleware(cfg.CORSAllowedOrigins),
	)
	return r
}

// APIMiddlewares returns the stack for short request/response routes:
// per-IP rate limit, 1 MB body cap, 30 s handler deadline and security
// headers (CSP, HSTS, X-Frame-Options, Permissions-Policy). They must not
// wrap the websocket route; the deadline would cut every connection.
func APIMiddlewares(cfg ServerConfig) []func(http.Handler) http.Handler {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 100
	}
	sec := secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=()",
		IsDevelopment:         cfg.IsDevelopment,
	})
	return []func(http.Handler) http.Handler{
		httprate.LimitByIP(limit, time.Minute),
		RequestBodyLimit(1 << 20),
		middleware.Timeout(30 * time.Second),
		sec.Handler,
	}
}

// CORSMiddleware returns a CORS handler restricted to the given allowed origins.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(allowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// ParseOrigins splits a comma-separated origins string, trimming spaces.
// An empty list means "*". The websocket upgrader checks Origin against the
// same list.
func ParseOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// OriginChecker returns a websocket CheckOrigin func accepting requests
// without an Origin header and those whose Origin is in allowedOrigins.
func OriginChecker(allowedOrigins string) func(r *http.Request) bool {
	origins := ParseOrigins(allowedOrigins)
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.ToLower(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}
}

// RequestBodyLimit returns middleware that caps the request body at maxBytes.
// Reads beyond the cap fail; handlers turn that into a 4xx response.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server with production-ready timeouts.
// WriteTimeout is left unset because it would also bound hijacked
// websocket connections; the gateway sets its own write deadlines.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
