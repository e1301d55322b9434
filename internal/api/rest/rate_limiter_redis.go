package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/meridiangrc/governance-backend/internal/infrastructure/telemetry"
)

// RateLimitConfig configures the request rate limiter
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	ByIP              bool
	ByEndpoint        bool
}

// RedisRateLimiter implements distributed fixed-window rate limiting on
// Redis, with a local token-bucket fallback when Redis is unreachable.
type RedisRateLimiter struct {
	client        *redis.Client
	config        RateLimitConfig
	localLimiters sync.Map
	tracer        trace.Tracer
}

// RateLimitResult contains rate limit check results
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// NewRedisRateLimiter creates a new Redis-backed rate limiter
func NewRedisRateLimiter(client *redis.Client, config RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		config: config,
		tracer: telemetry.Tracer("api.rest.ratelimit"),
	}
}

// Middleware returns a rate limiting middleware
func (r *RedisRateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			key := r.getKey(req)

			result := r.checkLimit(req, key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"code":"RATE_LIMIT_EXCEEDED","message":"Too many requests"}}`))
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func (r *RedisRateLimiter) checkLimit(req *http.Request, key string) *RateLimitResult {
	ctx, span := r.tracer.Start(req.Context(), "ratelimit.check",
		trace.WithAttributes(
			attribute.String("key", key),
			attribute.Int("limit", r.config.RequestsPerSecond),
		),
	)
	defer span.End()

	now := time.Now()
	window := now.Truncate(time.Second).Unix()
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, window)

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		span.RecordError(err)
		return r.fallbackToLocal(key)
	}

	// expire the window key on its first hit
	if count == 1 {
		r.client.Expire(ctx, redisKey, 2*time.Second)
	}

	allowed := count <= int64(r.config.RequestsPerSecond)
	remaining := r.config.RequestsPerSecond - int(count)
	if remaining < 0 {
		remaining = 0
	}

	result := &RateLimitResult{
		Allowed:   allowed,
		Limit:     r.config.RequestsPerSecond,
		Remaining: remaining,
		ResetAt:   time.Unix(window+1, 0),
	}
	if !allowed {
		result.RetryAfter = time.Until(result.ResetAt)
	}

	span.SetAttributes(
		attribute.Bool("allowed", allowed),
		attribute.Int("count", int(count)),
	)

	return result
}

func (r *RedisRateLimiter) fallbackToLocal(key string) *RateLimitResult {
	limiterInterface, _ := r.localLimiters.LoadOrStore(key, rate.NewLimiter(
		rate.Limit(r.config.RequestsPerSecond),
		r.config.Burst,
	))
	limiter := limiterInterface.(*rate.Limiter)

	allowed := limiter.Allow()

	result := &RateLimitResult{
		Allowed:   allowed,
		Limit:     r.config.RequestsPerSecond,
		Remaining: int(limiter.Tokens()),
		ResetAt:   time.Now().Add(time.Second),
	}
	if !allowed {
		result.RetryAfter = time.Second
	}
	return result
}

func (r *RedisRateLimiter) getKey(req *http.Request) string {
	var parts []string

	if r.config.ByIP {
		parts = append(parts, getClientIP(req))
	}
	if r.config.ByEndpoint {
		parts = append(parts, req.Method, req.URL.Path)
	}
	if len(parts) == 0 {
		parts = append(parts, "global")
	}

	return strings.Join(parts, ":")
}
