package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dto"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/service"
)

// TrackerHandler serves the event producer endpoints
type TrackerHandler struct {
	trackingService service.Tracker
	router          *gin.Engine
	log             *zap.Logger
}

// NewTrackerHandler creates the tracker handler
func NewTrackerHandler(trackingService service.Tracker, log *zap.Logger) *TrackerHandler {
	h := &TrackerHandler{
		trackingService: trackingService,
		router:          gin.Default(),
		log:             log,
	}

	h.registerRoutes()

	return h
}

func (h *TrackerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *TrackerHandler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/api/mock/deliver", h.deliverEmail)
	h.router.POST("/api/mock/open", h.trackOpen)
	h.router.POST("/api/mock/click", h.trackClick)
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *TrackerHandler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// deliverEmail handles POST /api/mock/deliver
// @Summary Simulate an email delivery
// @Description Simulates delivery to each recipient and publishes a delivery event
// @Tags mock
// @Accept json
// @Produce json
// @Param request body dto.DeliverEmailRequest true "Delivery request"
// @Success 200 {object} dto.DeliverEmailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/mock/deliver [post]
func (h *TrackerHandler) deliverEmail(c *gin.Context) {
	var req dto.DeliverEmailRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.trackingService.SimulateDelivery(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to simulate delivery", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// trackOpen handles POST /api/mock/open
// @Summary Record an email open
// @Description Publishes an open event for the given email
// @Tags mock
// @Accept json
// @Produce json
// @Param request body dto.TrackOpenRequest true "Open request"
// @Success 200 {object} dto.TrackEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/mock/open [post]
func (h *TrackerHandler) trackOpen(c *gin.Context) {
	var req dto.TrackOpenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.trackingService.TrackOpen(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to track open", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// trackClick handles POST /api/mock/click
// @Summary Record an attachment click
// @Description Publishes a click event for the given attachment
// @Tags mock
// @Accept json
// @Produce json
// @Param request body dto.TrackClickRequest true "Click request"
// @Success 200 {object} dto.TrackEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/mock/click [post]
func (h *TrackerHandler) trackClick(c *gin.Context) {
	var req dto.TrackClickRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.trackingService.TrackClick(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to track click", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
