// Package ratelimit implements a Redis sliding-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// Decision is the outcome of one limit check
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter allows maxRequests per identifier within window. A nil client allows everything.
type Limiter struct {
	redis       *redis.Client
	name        string
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewLimiter creates a limiter; name separates the key space of different limiters
func NewLimiter(client *redis.Client, name string, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		redis:       client,
		name:        name,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records one request for identifier and reports whether it is within the limit
func (l *Limiter) Allow(ctx context.Context, identifier string) (Decision, error) {
	now := l.now()
	if l.redis == nil || l.maxRequests <= 0 {
		return Decision{Allowed: true, Remaining: l.maxRequests, ResetAt: now.Add(l.window)}, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", l.name, identifier)
	windowStart := now.Add(-l.window)

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, key, l.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := countCmd.Val()
	remaining := l.maxRequests - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count < int64(l.maxRequests),
		Remaining: remaining,
		ResetAt:   now.Add(l.window),
	}, nil
}

// ClientIP identifies a caller by remote address
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware limits requests per ClientIP. Limiter failures let the request through.
func (l *Limiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := ClientIP(r)

		decision, err := l.Allow(r.Context(), identifier)
		if err != nil {
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Str("limiter", l.name).
				Int("limit", l.maxRequests).
				Msg("Rate limit exceeded")

			retryAfter := time.Until(decision.ResetAt).Round(time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			httpx.RespondJSON(w, http.StatusTooManyRequests, httpx.Response{
				Success: false,
				Error:   fmt.Sprintf("too many requests, try again in %v", retryAfter),
			})
			return
		}

		next.ServeHTTP(w, r)
	}
}
