package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "studio:cache:"

// ResponseCache keeps public catalog responses in Redis.
// A nil *ResponseCache or one without a client passes every request through.
type ResponseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

func NewResponseCache(rdb *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ResponseCache{rdb: rdb, ttl: ttl}
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware serves GET requests from cache and stores 200 responses.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || rc.rdb == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := cachePrefix + c.Request.URL.RequestURI()

		if raw, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() != http.StatusOK {
			return
		}
		payload, err := json.Marshal(cachedResponse{
			Status:      rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rc.rdb.Set(ctx, key, payload, rc.ttl).Err(); err != nil {
			slog.Warn("cache store failed", slog.String("key", key), slog.Any("error", err))
		}
	}
}

// Invalidate drops every cached response whose path starts with one of the
// given prefixes (e.g. "/services").
func (rc *ResponseCache) Invalidate(ctx context.Context, prefixes ...string) {
	if rc == nil || rc.rdb == nil {
		return
	}
	for _, p := range prefixes {
		iter := rc.rdb.Scan(ctx, 0, cachePrefix+p+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			slog.Warn("cache scan failed", slog.String("prefix", p), slog.Any("error", err))
			continue
		}
		if len(keys) > 0 {
			if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("cache invalidate failed", slog.String("prefix", p), slog.Any("error", err))
			}
		}
	}
}
