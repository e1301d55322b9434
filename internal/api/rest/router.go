package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridiangrc/governance-backend/internal/metrics"
)

// RouterConfig holds router assembly options
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Registry
	RateLimiter    *RedisRateLimiter
	AllowedOrigins []string
	RequestTimeout time.Duration
	EnableTracing  bool
}

// NewRouter assembles the route table and middleware chain. The chain
// runs recovery outermost, then request ID, logging, security headers,
// CORS, metrics, tracing, rate limiting, and finally the per-request
// timeout.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	middlewares := []Middleware{
		recoveryMiddleware(cfg.Logger),
		requestIDMiddleware,
		loggingMiddleware(cfg.Logger),
		securityHeadersMiddleware,
	}
	if len(cfg.AllowedOrigins) > 0 {
		middlewares = append(middlewares, corsMiddleware(cfg.AllowedOrigins))
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, metricsMiddleware(cfg.Metrics))
	}
	if cfg.EnableTracing {
		middlewares = append(middlewares, tracingMiddleware)
	}
	if cfg.RateLimiter != nil {
		middlewares = append(middlewares, cfg.RateLimiter.Middleware())
	}
	middlewares = append(middlewares, timeoutMiddleware(cfg.RequestTimeout))

	return Chain(mux, middlewares...)
}
