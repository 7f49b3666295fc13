package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stagestream/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit counts one hit for id on resource in a fixed window and
// reports whether the hit is within limit.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, errors.New("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	// Every counter must carry an expiry, including ones left without it by a
	// failed EXPIRE.
	cnt := incr.Val()
	if cnt == 1 || ttl.Val() < 0 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit enforces limit requests per window per client IP. It is a no-op
// without Redis and lets requests through when Redis fails.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		allowed, err := CheckRateLimit(c.Request.Context(), rdb, resource, c.ClientIP(), limit, window)
		if err != nil {
			Logger.WarnContext(c.Request.Context(), "rate limit check failed, allowing request",
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			)
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimited.WithLabelValues(resource).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many requests",
				"code_type": "rateLimited",
			})
			return
		}
		c.Next()
	}
}
