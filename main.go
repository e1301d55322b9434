package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/meridiangrc/governance-backend/internal/api/rest"
	"github.com/meridiangrc/governance-backend/internal/infrastructure/config"
	"github.com/meridiangrc/governance-backend/internal/infrastructure/database"
	"github.com/meridiangrc/governance-backend/internal/infrastructure/telemetry"
	"github.com/meridiangrc/governance-backend/internal/metrics"
	"github.com/meridiangrc/governance-backend/internal/service/trends"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting governance backend",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"port", cfg.Server.Port)

	otelCfg := telemetry.DefaultConfig()
	otelCfg.ServiceVersion = cfg.Version
	otelCfg.Environment = cfg.Environment
	otelCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	otelCfg.Enabled = cfg.Telemetry.TraceEnabled

	otelProvider, err := telemetry.InitializeOpenTelemetry(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer otelProvider.Shutdown(context.Background())

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("initializing database logger: %w", err)
	}
	defer zapLogger.Sync()

	pool, err := database.NewConnectionPool(&cfg.Database, zapLogger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	redisClient, err := newRedisClient(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("configuring redis: %w", err)
	}
	defer redisClient.Close()

	registry := metrics.NewRegistry(prometheus.DefaultRegisterer)

	snapshotRepo := database.NewSnapshotRepository(pool.Pool())
	summaryRepo := database.NewSummaryRepository(pool.Pool())

	trendService := trends.NewService(snapshotRepo, summaryRepo, logger).
		WithMetrics(registry)

	handler := rest.NewHandler(trendService, logger).
		WithReadinessCheck("database", pool).
		WithReadinessCheck("redis", redisPinger{client: redisClient})

	rateLimiter := rest.NewRedisRateLimiter(redisClient, rest.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.BurstSize,
		ByIP:              true,
	})

	router := rest.NewRouter(handler, rest.RouterConfig{
		Logger:         logger,
		Metrics:        registry,
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.WriteTimeout,
		EnableTracing:  cfg.Telemetry.TraceEnabled,
	})

	server := rest.NewServer(&cfg.Server, router, logger)
	return server.Start(ctx)
}

func newRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{Addr: "localhost:6379"}

	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	return redis.NewClient(opts), nil
}

// redisPinger adapts the redis client to the readiness probe interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
