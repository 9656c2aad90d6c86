package http

import (
	"io"
	"math"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/salah-sync-engine/internal/core/beadpath"
)

type BeadPathHandler struct {
	curve  beadpath.Curve
	logger *log.Logger
}

func NewBeadPathHandler(curve beadpath.Curve, logger *log.Logger) *BeadPathHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BeadPathHandler{curve: curve, logger: logger}
}

type screenQuery struct {
	Width  float64 `form:"width" binding:"omitempty,gt=0"`
	Height float64 `form:"height" binding:"omitempty,gt=0"`
}

type pointQuery struct {
	T *float64 `form:"t" binding:"required"`
}

type closestQuery struct {
	X       *float64 `form:"x" binding:"required"`
	Y       *float64 `form:"y" binding:"required"`
	Samples int      `form:"samples" binding:"omitempty,min=1,max=10000"`
}

type nearQuery struct {
	X         *float64 `form:"x" binding:"required"`
	Y         *float64 `form:"y" binding:"required"`
	Threshold *float64 `form:"threshold" binding:"required,gte=0"`
	Samples   int      `form:"samples" binding:"omitempty,min=1,max=10000"`
}

type arcLengthQuery struct {
	T       *float64 `form:"t" binding:"required"`
	Samples int      `form:"samples" binding:"omitempty,min=1,max=10000"`
}

type clampQuery struct {
	T   *float64 `form:"t" binding:"required"`
	Min *float64 `form:"min" binding:"required"`
	Max *float64 `form:"max" binding:"required"`
}

func (h *BeadPathHandler) RegisterRoutes(router *gin.RouterGroup) {
	path := router.Group("/beadpath")
	{
		path.GET("", h.Curve)
		path.GET("/point", h.Point)
		path.GET("/closest", h.Closest)
		path.GET("/near", h.Near)
		path.GET("/arc-length", h.ArcLength)
		path.GET("/clamp", h.Clamp)
	}
}

// curveFor returns the configured curve, or the screen curve for the
// width and height given in the query.
func (h *BeadPathHandler) curveFor(c *gin.Context) (beadpath.Curve, bool) {
	var q screenQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return beadpath.Curve{}, false
	}
	if q.Width == 0 && q.Height == 0 {
		return h.curve, true
	}
	if q.Width == 0 || q.Height == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be given together"})
		return beadpath.Curve{}, false
	}

	curve := beadpath.ForScreen(q.Width, q.Height)
	if err := curve.Validate(); err != nil {
		handleError(c, h.logger, err)
		return beadpath.Curve{}, false
	}
	return curve, true
}

func bindFinite(c *gin.Context, obj any, values func() []*float64) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	for _, v := range values() {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query values must be finite numbers"})
			return false
		}
	}
	return true
}

func orDefault(samples, fallback int) int {
	if samples == 0 {
		return fallback
	}
	return samples
}

func (h *BeadPathHandler) Curve(c *gin.Context) {
	curve, ok := h.curveFor(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, curve)
}

func (h *BeadPathHandler) Point(c *gin.Context) {
	curve, ok := h.curveFor(c)
	if !ok {
		return
	}

	var q pointQuery
	if !bindFinite(c, &q, func() []*float64 { return []*float64{q.T} }) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"t":     *q.T,
		"point": curve.PointAt(*q.T),
		"angle": curve.TangentAngle(*q.T),
	})
}

func (h *BeadPathHandler) Closest(c *gin.Context) {
	curve, ok := h.curveFor(c)
	if !ok {
		return
	}

	var q closestQuery
	if !bindFinite(c, &q, func() []*float64 { return []*float64{q.X, q.Y} }) {
		return
	}

	t := curve.ClosestT(*q.X, *q.Y, orDefault(q.Samples, beadpath.DefaultClosestSamples))

	c.JSON(http.StatusOK, gin.H{
		"t":     t,
		"point": curve.PointAt(t),
	})
}

func (h *BeadPathHandler) Near(c *gin.Context) {
	curve, ok := h.curveFor(c)
	if !ok {
		return
	}

	var q nearQuery
	if !bindFinite(c, &q, func() []*float64 { return []*float64{q.X, q.Y, q.Threshold} }) {
		return
	}

	near := curve.IsPointNear(*q.X, *q.Y, *q.Threshold, orDefault(q.Samples, beadpath.DefaultNearSamples))

	c.JSON(http.StatusOK, gin.H{"near": near})
}

func (h *BeadPathHandler) ArcLength(c *gin.Context) {
	curve, ok := h.curveFor(c)
	if !ok {
		return
	}

	var q arcLengthQuery
	if !bindFinite(c, &q, func() []*float64 { return []*float64{q.T} }) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"t":      *q.T,
		"length": curve.ArcLength(*q.T, orDefault(q.Samples, beadpath.DefaultArcSamples)),
	})
}

func (h *BeadPathHandler) Clamp(c *gin.Context) {
	var q clampQuery
	if !bindFinite(c, &q, func() []*float64 { return []*float64{q.T, q.Min, q.Max} }) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"t": beadpath.ClampT(*q.T, *q.Min, *q.Max)})
}
