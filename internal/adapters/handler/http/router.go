package http

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/salah-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/services"
)

// RouterDependencies wires the router. TokenService and Redis are optional:
// without a token service the mutating routes are open.
type RouterDependencies struct {
	TrackerHandler  *TrackerHandler
	BeadPathHandler *BeadPathHandler
	TokenService    *services.TokenService
	Store           domain.KeyValueStore
	Redis           *redis.Client
	Logger          *log.Logger
	RateLimit       int
	RateWindow      time.Duration
	StartTime       time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}

	router := gin.Default()

	router.Use(middleware.RequestID())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	if deps.RateLimit > 0 {
		if deps.Redis != nil {
			router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateWindow, deps.Logger))
		} else {
			router.Use(middleware.NewLocalRateLimiter(deps.RateLimit, deps.RateWindow).Middleware())
		}
	}

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		storeStatus := "connected"
		if deps.Store == nil || deps.Store.Ping(ctx) != nil {
			storeStatus = "unreachable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if storeStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":  "ok",
			"storage": storeStatus,
			"redis":   redisStatus,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	})

	apiV1 := router.Group("/api/v1")

	var guard []gin.HandlerFunc
	if deps.TokenService != nil {
		guard = append(guard, middleware.AuthMiddleware(deps.TokenService))
	}

	deps.TrackerHandler.RegisterRoutes(apiV1, guard...)
	deps.BeadPathHandler.RegisterRoutes(apiV1)

	return router
}
