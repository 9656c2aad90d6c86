package http

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/salah-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/beadpath"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
)

func handleError(c *gin.Context, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})

	case errors.Is(err, domain.ErrInvalidMonth):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month, expected YYYY-MM"})

	case errors.Is(err, domain.ErrInvalidPrayer):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown prayer"})

	case errors.Is(err, domain.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "from cannot be after to"})

	case errors.Is(err, beadpath.ErrInvalidCurve):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrPersistFailed):
		logger.Error("storage write failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(middleware.ContextRequestIDKey),
			"err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "storage unavailable",
			"message": "the change was not saved, please retry",
		})

	default:
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(middleware.ContextRequestIDKey),
			"err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
