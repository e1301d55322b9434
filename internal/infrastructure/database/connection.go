package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/meridiangrc/governance-backend/internal/infrastructure/config"
)

// ConnectionPool wraps a pgx pool with health checking and pool metrics.
type ConnectionPool struct {
	pool            *pgxpool.Pool
	config          *config.DatabaseConfig
	logger          *zap.Logger
	healthCheckStop chan struct{}
	stopOnce        sync.Once
	metrics         *ConnectionMetrics
}

// ConnectionMetrics tracks connection pool state
type ConnectionMetrics struct {
	mu sync.RWMutex

	TotalConnections    int64
	ActiveConnections   int64
	IdleConnections     int64
	MaxLifetimeClosures int64
	LastHealthCheck     time.Time
}

// NewConnectionPool creates and pings a new connection pool
func NewConnectionPool(cfg *config.DatabaseConfig, logger *zap.Logger) (*ConnectionPool, error) {
	p := &ConnectionPool{
		config:          cfg,
		logger:          logger,
		healthCheckStop: make(chan struct{}),
		metrics:         &ConnectionMetrics{},
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	p.configurePgxPool(poolConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p.pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := p.pool.Ping(ctx); err != nil {
		p.pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	go p.healthCheckRoutine()

	logger.Info("database connection pool initialized",
		zap.Int("max_connections", int(poolConfig.MaxConns)))

	return p, nil
}

func (p *ConnectionPool) configurePgxPool(poolConfig *pgxpool.Config) {
	if p.config.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(p.config.MaxOpenConns)
	} else {
		poolConfig.MaxConns = 25
	}
	if p.config.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(p.config.MaxIdleConns)
	} else {
		poolConfig.MinConns = 5
	}
	if p.config.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = p.config.ConnMaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.ConnConfig.RuntimeParams = map[string]string{
		"application_name":  "governance_backend",
		"timezone":          "UTC",
		"lock_timeout":      "10s",
		"statement_timeout": "30s",
	}

	poolConfig.BeforeConnect = func(ctx context.Context, cc *pgx.ConnConfig) error {
		p.logger.Debug("establishing database connection",
			zap.String("host", cc.Host),
			zap.Uint16("port", cc.Port))
		return nil
	}

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		p.metrics.mu.Lock()
		p.metrics.TotalConnections++
		p.metrics.mu.Unlock()
		return nil
	}
}

// Pool returns the underlying pgx pool
func (p *ConnectionPool) Pool() *pgxpool.Pool {
	return p.pool
}

// Transaction executes a function within a database transaction
func (p *ConnectionPool) Transaction(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, p.pool, pgx.TxOptions{}, fn)
}

// Ping verifies the database is reachable
func (p *ConnectionPool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *ConnectionPool) healthCheckRoutine() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.performHealthCheck()
		case <-p.healthCheckStop:
			return
		}
	}
}

func (p *ConnectionPool) performHealthCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.pool.Ping(ctx); err != nil {
		p.logger.Error("database health check failed", zap.Error(err))
	}

	stats := p.pool.Stat()
	p.metrics.mu.Lock()
	p.metrics.ActiveConnections = int64(stats.AcquiredConns())
	p.metrics.IdleConnections = int64(stats.IdleConns())
	p.metrics.MaxLifetimeClosures = stats.MaxLifetimeDestroyCount()
	p.metrics.LastHealthCheck = time.Now()
	p.metrics.mu.Unlock()
}

// Stats returns a copy of the current pool metrics
func (p *ConnectionPool) Stats() ConnectionMetrics {
	p.metrics.mu.RLock()
	defer p.metrics.mu.RUnlock()
	return ConnectionMetrics{
		TotalConnections:    p.metrics.TotalConnections,
		ActiveConnections:   p.metrics.ActiveConnections,
		IdleConnections:     p.metrics.IdleConnections,
		MaxLifetimeClosures: p.metrics.MaxLifetimeClosures,
		LastHealthCheck:     p.metrics.LastHealthCheck,
	}
}

// Close closes the connection pool
func (p *ConnectionPool) Close() error {
	p.stopOnce.Do(func() { close(p.healthCheckStop) })
	p.pool.Close()
	p.logger.Info("database connection pool closed")
	return nil
}

// GetDB returns a standard database/sql DB for compatibility
func (p *ConnectionPool) GetDB() (*sql.DB, error) {
	return stdlib.OpenDBFromPool(p.pool), nil
}
