package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dto"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/service"
)

// StatsHandler serves the read-only statistics API
type StatsHandler struct {
	statsService service.StatsQueryer
	router       *gin.Engine
	log          *zap.Logger
}

// NewStatsHandler creates the stats API handler
func NewStatsHandler(statsService service.StatsQueryer, log *zap.Logger) *StatsHandler {
	h := &StatsHandler{
		statsService: statsService,
		router:       gin.Default(),
		log:          log,
	}

	h.registerRoutes()

	return h
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *StatsHandler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/api/dashboard/summary", h.getDashboardSummary)
	h.router.GET("/api/statistics/opens", h.getOpenStatistics)
	h.router.GET("/api/statistics/attachments", h.getAttachmentStatistics)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *StatsHandler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// getDashboardSummary handles GET /api/dashboard/summary
// @Summary Dashboard summary
// @Description Totals and per-day chart data for the date range (default: trailing 30 days)
// @Tags dashboard
// @Produce json
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.DashboardSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/dashboard/summary [get]
func (h *StatsHandler) getDashboardSummary(c *gin.Context) {
	var req dto.StatsRangeRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	summary, err := h.statsService.GetDashboardSummary(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get dashboard summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getOpenStatistics handles GET /api/statistics/opens
// @Summary Email open statistics
// @Description Per-day open counts and rates, optionally filtered by category
// @Tags statistics
// @Produce json
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Param emailCategory query string false "Email category filter"
// @Success 200 {array} dto.OpenStatisticsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/statistics/opens [get]
func (h *StatsHandler) getOpenStatistics(c *gin.Context) {
	var req dto.StatsRangeRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	stats, err := h.statsService.GetOpenStatistics(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get open statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// getAttachmentStatistics handles GET /api/statistics/attachments
// @Summary Attachment click statistics
// @Description Per-day click counts and rates, optionally filtered by file type
// @Tags statistics
// @Produce json
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Param fileType query string false "File type filter"
// @Success 200 {array} dto.AttachmentStatisticsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/statistics/attachments [get]
func (h *StatsHandler) getAttachmentStatistics(c *gin.Context) {
	var req dto.StatsRangeRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	stats, err := h.statsService.GetAttachmentStatistics(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get attachment statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
