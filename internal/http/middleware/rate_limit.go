package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cardlet/cardlet-invites/internal/http/response"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

// limiterClient is the slice of the redis client the limiter needs.
type limiterClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimiter throttles anonymous traffic on the public share endpoints with
// a fixed window counter in redis, keyed per client IP.
type RateLimiter struct {
	client limiterClient
	scope  string
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, scope string, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		scope:  scope,
		limit:  limit,
		window: window,
	}
	if client != nil {
		rl.client = client
	}
	return rl
}

// NewRateLimiterWithClient is NewRateLimiter over any client implementation.
func NewRateLimiterWithClient(client limiterClient, scope string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, scope: scope, limit: limit, window: window}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.client == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := "ratelimit:" + rl.scope + ":" + clientIP(r)
			if !rl.allow(r.Context(), key) {
				response.RateLimited(w, "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allow increments the window counter and reports whether the request fits.
// Redis errors fail open so an outage degrades to unlimited rather than
// unavailable.
func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		logger.WarnContext(ctx, "Rate limit check failed, allowing request", "error", err)
		return true
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
			logger.WarnContext(ctx, "Failed to set rate limit window", "error", err, "key", key)
		}
	}
	return count <= int64(rl.limit)
}

// clientIP extracts the client address: first X-Forwarded-For element, then
// X-Real-IP, then the connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
