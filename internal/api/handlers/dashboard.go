package handlers

import (
	"log"

	"qbit-secure/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(),
	}
}

// Summary returns the latest dashboard metrics plus the caller's activity feed
func (h *DashboardHandler) Summary(c *gin.Context) {
	userID := c.GetUint("user_id")

	summary, err := h.dashboardService.Summary(userID)
	if err != nil {
		log.Printf("dashboard summary error: %v", err)
		c.JSON(500, gin.H{"error": "Failed to fetch dashboard data"})
		return
	}

	c.JSON(200, summary)
}
