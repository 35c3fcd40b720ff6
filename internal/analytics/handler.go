package analytics

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/Uzair-37/Standard-website/internal/api/v1"
	httperr "github.com/Uzair-37/Standard-website/internal/core/errors"
)

const defaultSessionLimit = 10

// RegisterRoutes registers all analytics routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/track", s.HandleTrack)
	r.POST("/api/insights", s.HandleSaveInsights)
	r.GET("/api/insights", s.HandleListInsights)
	r.GET("/api/insights/high-priority", s.HandleHighPriorityInsights)

	grp := r.Group("/api/analytics")
	grp.GET("/traffic", s.HandleTrafficSummary)
	grp.GET("/conversions", s.HandleConversionSummary)
	grp.GET("/top-products", s.HandleTopProducts)
	grp.GET("/devices", s.HandleDeviceStats)
	grp.GET("/sessions", s.HandleTopSessions)
}

// HandleTrack handles HTTP POST requests from the page tracker. Tracking is
// fire-and-forget for the client: a parseable body is always accepted, and
// snapshot trouble never changes the response.
func (s *Service) HandleTrack(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	var evt v1.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		slog.Warn("[Analytics] Invalid event body received", "error", err, "payload_size", len(body))
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
		})
		return
	}

	stored := s.Track(evt)
	slog.Info("[Analytics] Event tracked",
		"event_id", stored.ID,
		"event_type", stored.Type,
		"session_id", stored.SessionID,
		"payload_size", len(body),
	)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "id": stored.ID})
}

// HandleSaveInsights handles HTTP POST requests carrying a batch of
// client-computed insights.
func (s *Service) HandleSaveInsights(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	var batch v1.InsightBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		slog.Warn("[Analytics] Invalid insight batch received", "error", err, "payload_size", len(body))
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
		})
		return
	}

	n, err := s.SaveInsights(batch)
	if err != nil {
		if errors.Is(err, v1.ErrNoInsights) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpEmptyBatchError,
				Message:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to store insights",
			Details:   err.Error(),
		})
		return
	}

	slog.Info("[Analytics] Insight batch stored", "count", n, "session_id", batch.SessionID)
	c.JSON(http.StatusCreated, gin.H{"status": "created", "count": n})
}

// HandleListInsights handles GET /api/insights.
func (s *Service) HandleListInsights(c *gin.Context) {
	insights := s.Insights()
	c.JSON(http.StatusOK, gin.H{"count": len(insights), "insights": insights})
}

// HandleHighPriorityInsights handles GET /api/insights/high-priority.
func (s *Service) HandleHighPriorityInsights(c *gin.Context) {
	insights := s.HighPriorityInsights()
	c.JSON(http.StatusOK, gin.H{"count": len(insights), "insights": insights})
}

// HandleTrafficSummary handles GET /api/analytics/traffic.
func (s *Service) HandleTrafficSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.TrafficSummary())
}

// HandleConversionSummary handles GET /api/analytics/conversions.
func (s *Service) HandleConversionSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.ConversionSummary())
}

// HandleTopProducts handles GET /api/analytics/top-products.
func (s *Service) HandleTopProducts(c *gin.Context) {
	products := s.TopProducts()
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// HandleDeviceStats handles GET /api/analytics/devices.
func (s *Service) HandleDeviceStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.DeviceStats())
}

// HandleTopSessions handles GET /api/analytics/sessions.
// Query parameters: limit (optional, default 10).
func (s *Service) HandleTopSessions(c *gin.Context) {
	limit := defaultSessionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidJsonError,
				Message:   "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	sessions := s.TopSessions(limit)
	c.JSON(http.StatusOK, gin.H{"count": len(sessions), "sessions": sessions})
}

// readBody reads the request body under the configured size cap.
func (s *Service) readBody(c *gin.Context) ([]byte, bool) {
	limited := io.LimitReader(c.Request.Body, s.maxBodyBytes+1) // +1 to detect oversized requests

	body, err := io.ReadAll(limited)
	if err != nil {
		slog.Error("[Analytics] Failed to read request body", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to read request body",
		})
		return nil, false
	}

	if int64(len(body)) > s.maxBodyBytes {
		slog.Warn("[Analytics] Request body exceeds maximum size", "size", len(body), "max", s.maxBodyBytes)
		c.JSON(http.StatusRequestEntityTooLarge, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Request body exceeds maximum allowed size",
			Details: map[string]interface{}{
				"max_size_mb": s.maxBodyBytes / (1024 * 1024),
			},
		})
		return nil, false
	}

	return body, true
}
