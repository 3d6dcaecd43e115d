package api

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RedisRateLimiter implements distributed fixed-window rate limiting using Redis.
// Used on the admin control surface so a runaway test harness cannot hammer
// the clock-mutation and manual-trigger endpoints.
type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRateLimiter creates a limiter with the given key prefix.
func NewRedisRateLimiter(client redis.UniversalClient, prefix string) *RedisRateLimiter {
	trimmed := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if trimmed == "" {
		trimmed = "fd_service:rate_limit"
	}
	return &RedisRateLimiter{client: client, prefix: trimmed}
}

// Consume records one request for the subject and returns the running count
// plus the retry-after hint in seconds. A nil limiter or non-positive limit
// disables limiting.
func (r *RedisRateLimiter) Consume(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error) {
	if r == nil || r.client == nil || limit <= 0 || window <= 0 {
		return 0, 0, nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1000 {
		windowMs = 1000
	}

	key := fmt.Sprintf("%s:%s:%s", r.prefix, scope, subject)
	raw, err := fixedWindowScript.Run(ctx, r.client, []string{key}, windowMs).Result()
	if err != nil {
		return 0, 0, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected redis limiter response shape: %T", raw)
	}
	current, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected redis limiter count type: %T", values[0])
	}
	ttlMs, ok := values[1].(int64)
	if !ok {
		return int(current), 0, fmt.Errorf("unexpected redis limiter ttl type: %T", values[1])
	}
	if ttlMs < 0 {
		ttlMs = windowMs
	}

	retryAfter := int(math.Ceil(float64(ttlMs) / 1000.0))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return int(current), retryAfter, nil
}

// limiterSubject derives the rate-limit bucket key from a remote address.
// net.SplitHostPort keeps IPv6 addresses intact; anything unparsable is used
// as-is so distinct callers never collapse into one bucket.
func limiterSubject(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil || host == "" {
		return remoteAddr
	}
	return host
}

// RateLimitMiddleware applies a per-minute limit keyed on the caller's remote
// address. When Redis is unreachable the request is allowed through; limiting
// is protection, not a correctness requirement.
func RateLimitMiddleware(limiter *RedisRateLimiter, scope string, perMinute int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			subject := limiterSubject(r.RemoteAddr)

			count, retryAfter, err := limiter.Consume(r.Context(), scope, subject, perMinute, time.Minute)
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count > perMinute {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
