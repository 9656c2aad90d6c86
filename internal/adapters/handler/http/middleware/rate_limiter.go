package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiterMiddleware applies a fixed window of limit requests per client IP
// using redis counters. Redis errors let the request through.
func RateLimiterMiddleware(rdb *redis.Client, limit int, window time.Duration, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("salah:rate_limit:%s", c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter skipped", "err", err)
			c.Next()
			return
		}

		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				logger.Warn("rate limiter expire failed, deleting key", "err", err)
				rdb.Del(ctx, key)
				c.Next()
				return
			}
		}

		ttl, err := rdb.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(limit)-count)))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(ttl).Unix()))

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"retry_in_s": int(ttl.Seconds()),
			})
			return
		}

		c.Next()
	}
}

// LocalRateLimiter is the in-process fallback used when redis is not configured:
// one token bucket per client IP.
type LocalRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewLocalRateLimiter(limit int, window time.Duration) *LocalRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &LocalRateLimiter{
		limit:    rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *LocalRateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

func (l *LocalRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
