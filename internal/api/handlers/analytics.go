package handlers

import (
	"log"

	"qbit-secure/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler() *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: services.NewAnalyticsService(),
	}
}

// Summary returns the aggregated metrics for ?timeframe= (24h, 7d, 30d,
// 90d; anything else means 7d).
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analyticsService.Summary(c.Query("timeframe"))
	if err != nil {
		log.Printf("analytics summary error: %v", err)
		c.JSON(500, gin.H{"error": "Failed to fetch analytics data"})
		return
	}

	c.JSON(200, summary)
}
