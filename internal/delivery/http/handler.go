package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/honeybarrel/backend/internal/domain"
	"github.com/honeybarrel/backend/internal/usecase"
)

// Version is reported by the health check
const Version = "1.0.0"

// comparisonErrorMessage is shown by the extension when a comparison could not run
const comparisonErrorMessage = "Error processing bottle comparison"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisonService *usecase.ComparisonService
	logger            *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisonService *usecase.ComparisonService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		comparisonService: comparisonService,
		logger:            logger.Named("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "honeybarrel-backend",
		"version": Version,
	})
}

// CompareBottle matches a scraped bottle against the BAXUS catalog
func (h *Handler) CompareBottle(c *gin.Context) {
	if h.comparisonService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Comparison service not configured",
		})
		return
	}

	var bottle domain.BottleRecord
	if err := c.ShouldBindJSON(&bottle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.comparisonService.Compare(c.Request.Context(), &bottle)
	if err != nil {
		h.handleCompareError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleCompareError maps comparison errors to HTTP responses
func (h *Handler) handleCompareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: name and a positive price are required",
		})
	case errors.Is(err, domain.ErrListingsUnavailable):
		h.logger.Warn("comparison failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusOK, domain.ComparisonResult{
			Match:   false,
			Error:   true,
			Message: comparisonErrorMessage,
		})
	default:
		h.logger.Error("comparison failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// ListListings returns the current BAXUS catalog snapshot
func (h *Handler) ListListings(c *gin.Context) {
	if h.comparisonService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Comparison service not configured",
		})
		return
	}

	listings, err := h.comparisonService.Listings(c.Request.Context())
	if err != nil {
		h.logger.Error("listings fetch failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "BAXUS listings temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}
