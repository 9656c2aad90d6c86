package http

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/salah-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/services"
)

type TrackerHandler struct {
	svc    *services.TrackerService
	logger *log.Logger
}

func NewTrackerHandler(svc *services.TrackerService, logger *log.Logger) *TrackerHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TrackerHandler{svc: svc, logger: logger}
}

type markPrayerRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type recordsQuery struct {
	Date string `form:"date"`
	From string `form:"from"`
	To   string `form:"to"`
}

// RegisterRoutes mounts the tracker endpoints on router. guard runs in front
// of the routes that change stored data.
func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup, guard ...gin.HandlerFunc) {
	records := router.Group("/records")
	{
		records.GET("", h.ListRecords)
		records.PUT("/:date/:prayer", guarded(guard, h.MarkPrayer)...)
		records.DELETE("", guarded(guard, h.ClearAll)...)
	}

	stats := router.Group("/stats")
	{
		stats.GET("", h.Overall)
		stats.GET("/daily/:date", h.Daily)
		stats.GET("/weekly/:weekStart", h.Weekly)
		stats.GET("/monthly/:month", h.Monthly)
	}
}

func guarded(guard []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guard)+1)
	chain = append(chain, guard...)
	return append(chain, handler)
}

func (h *TrackerHandler) MarkPrayer(c *gin.Context) {
	prayer, err := domain.ParsePrayer(c.Param("prayer"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	date := c.Param("date")

	var req markPrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *req.Completed {
		err = h.svc.MarkPrayerCompleted(c.Request.Context(), prayer, date)
	} else {
		err = h.svc.MarkPrayerIncomplete(c.Request.Context(), prayer, date)
	}
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	if deviceID, ok := middleware.GetDeviceID(c); ok {
		h.logger.Debug("prayer updated", "device", deviceID, "date", date, "prayer", prayer, "completed", *req.Completed)
	}

	stats, err := h.svc.GetDailyStats(date)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *TrackerHandler) ListRecords(c *gin.Context) {
	var q recordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		records []domain.PrayerRecord
		err     error
	)
	switch {
	case q.Date != "":
		records, err = h.svc.GetRecordsForDate(q.Date)
	case q.From != "" && q.To != "":
		records, err = h.svc.GetRecordsForDateRange(q.From, q.To)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either date or from and to are required"})
		return
	}
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *TrackerHandler) ClearAll(c *gin.Context) {
	if err := h.svc.ClearAllData(c.Request.Context()); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TrackerHandler) Overall(c *gin.Context) {
	stats := h.svc.GetStats()
	if stats == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *TrackerHandler) Daily(c *gin.Context) {
	stats, err := h.svc.GetDailyStats(c.Param("date"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *TrackerHandler) Weekly(c *gin.Context) {
	stats, err := h.svc.GetWeeklyStats(c.Param("weekStart"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *TrackerHandler) Monthly(c *gin.Context) {
	stats, err := h.svc.GetMonthlyStats(c.Param("month"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
