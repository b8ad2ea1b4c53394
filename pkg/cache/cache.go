// Package cache caches JSON GET responses in Redis.
package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/restaurant-backend/pkg/logger"
)

// ResponseCache stores successful responses under a key namespace so a whole
// namespace can be invalidated at once. A nil client disables caching.
type ResponseCache struct {
	redis     *redis.Client
	namespace string
	ttl       time.Duration
}

// NewResponseCache creates a cache for one namespace, e.g. "menu"
func NewResponseCache(client *redis.Client, namespace string, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{redis: client, namespace: namespace, ttl: ttl}
}

// Key derives the cache key of a request
func (c *ResponseCache) Key(r *http.Request) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", r.Method, r.URL.Path, r.URL.RawQuery)))
	return fmt.Sprintf("cache:%s:%s", c.namespace, hex.EncodeToString(hash[:]))
}

// bodyRecorder captures the response while writing it through
type bodyRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *bodyRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *bodyRecorder) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// Middleware serves GET requests from Redis and stores 200 responses
func (c *ResponseCache) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c.redis == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := c.Key(r)

		cached, err := c.redis.Get(ctx, key).Bytes()
		if err == nil && len(cached) > 0 {
			logger.Debug(ctx).
				Str("path", r.URL.Path).
				Str("cache_key", key).
				Msg("Cache hit")

			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		if err != nil && err != redis.Nil {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache lookup failed")
		}

		w.Header().Set("X-Cache", "MISS")
		rec := &bodyRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.statusCode != http.StatusOK || rec.body.Len() == 0 {
			return
		}
		if err := c.redis.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("cache_key", key).
				Msg("Failed to cache response")
			return
		}
		logger.Debug(ctx).
			Str("path", r.URL.Path).
			Str("cache_key", key).
			Dur("ttl", c.ttl).
			Int("size", rec.body.Len()).
			Msg("Response cached")
	}
}

// Invalidate drops every cached response of the namespace
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}

	pattern := fmt.Sprintf("cache:%s:*", c.namespace)
	iter := c.redis.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := c.redis.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		logger.Info(ctx).
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}
	return nil
}
